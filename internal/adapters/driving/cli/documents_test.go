package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentsCmd_Use(t *testing.T) {
	assert.Equal(t, "documents", documentsCmd.Use)
}

func TestDocumentsCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents indexed")
}

func TestDocumentsCmd_ListsSorted(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	ingestFixture(t, "zebra.txt", "Document about zebras.")
	ingestFixture(t, "alpha.txt", "Document about alpacas.")

	out, err := execute(t, "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "alpha.txt (1 chunks)")
	assert.Contains(t, out, "zebra.txt (1 chunks)")
	assert.Less(t, strings.Index(out, "alpha.txt"), strings.Index(out, "zebra.txt"))
}
