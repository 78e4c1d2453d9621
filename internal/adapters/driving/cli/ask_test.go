package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_NoLLMConfigured(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	llmService = nil

	_, err := execute(t, "ask", "where is the reset switch?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "docq settings llm")
}

func TestAskCmd_StreamsAnswerWithSources(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	ingestFixture(t, "manual.txt", "The reset switch is on the back panel.")

	out, err := execute(t, "ask", "where is the reset switch?")

	require.NoError(t, err)
	assert.Contains(t, out, "answer based on provided context")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] manual.txt")
}

func TestAskCmd_NoStream(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { askNoStream = false }()

	ingestFixture(t, "manual.txt", "The reset switch is on the back panel.")

	out, err := execute(t, "ask", "where is the reset switch?", "--no-stream")

	require.NoError(t, err)
	assert.Contains(t, out, "answer based on provided context")
}

func TestAskCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { askJSON = false }()

	ingestFixture(t, "manual.txt", "The reset switch is on the back panel.")

	out, err := execute(t, "ask", "where is the reset switch?", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"answer"`)
	assert.Contains(t, out, `"sources"`)
	assert.Contains(t, out, `"num_sources_used"`)
}

func TestAskCmd_EmptyIndexStillAnswers(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "ask", "where is the reset switch?")

	require.NoError(t, err)
	assert.Contains(t, out, "could not find any relevant content")
}
