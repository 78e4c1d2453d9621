package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

func writeMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParse(t *testing.T) {
	path := writeMarkdown(t, `# Setup Guide

Install the binary first.

## Configuration

Edit the settings file.
Restart afterwards.
`)

	elements, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, elements, 4)

	assert.Equal(t, domain.ElementTitle, elements[0].Kind())
	assert.Equal(t, "Setup Guide", elements[0].Text)

	assert.Equal(t, domain.ElementText, elements[1].Kind())
	assert.Equal(t, "Install the binary first.", elements[1].Text)

	assert.Equal(t, domain.ElementTitle, elements[2].Kind())
	assert.Equal(t, "Configuration", elements[2].Text)

	assert.Contains(t, elements[3].Text, "Edit the settings file.")
	assert.Contains(t, elements[3].Text, "Restart afterwards.")
}

func TestParse_Lists(t *testing.T) {
	path := writeMarkdown(t, "- first item\n- second item\n")

	elements, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, elements, 1)

	assert.Equal(t, domain.ElementText, elements[0].Kind())
	assert.Contains(t, elements[0].Text, "first item")
	assert.Contains(t, elements[0].Text, "second item")
}

func TestParse_Empty(t *testing.T) {
	path := writeMarkdown(t, "\n\n")

	elements, err := New().Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, elements)
}
