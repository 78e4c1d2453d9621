package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commands := settingsCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "show")
	assert.Contains(t, names, "embedding")
	assert.Contains(t, names, "llm")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"2", 2},
		{"0", 1},
		{"9", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.input, 2, 1), "input %q", tt.input)
	}
}
