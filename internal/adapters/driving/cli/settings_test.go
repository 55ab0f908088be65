package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short key", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "pcsk_1234567890abcdef", expected: "pcsk...cdef"},
		{name: "Empty key", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestDisplayKey(t *testing.T) {
	assert.Equal(t, "(not set)", displayKey(""))
	assert.Equal(t, "jina...wxyz", displayKey("jina_abcdefghijklmnopqrstuvwxyz"))
}

func TestSettingsCmd_Show(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Directory: "+env.dataDir)
	assert.Contains(t, out, "Provider: Feature hashing (offline)")
	assert.Contains(t, out, "Dimensions: 64")
	assert.Contains(t, out, "Backend: In-memory (not persisted)")
	assert.Contains(t, out, "Top K: 3")
	assert.Contains(t, out, "Config file: "+filepath.Join(env.configDir, "config.toml"))
	assert.Zero(t, env.builds, "settings must not build services")
}

func TestSettingsCmd_ShowMasksKeys(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand(t, "", "settings", "set", "vector_index.backend", "pinecone")
	require.NoError(t, err)
	t.Setenv("PINECONE_API_KEY", "pcsk_supersecretvalue")

	out, err := executeCommand(t, "", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Cloud: aws (us-east-1)")
	assert.Contains(t, out, "API Key: pcsk...alue")
	assert.NotContains(t, out, "supersecret")
}

func TestSettingsCmd_Set(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "", "settings", "set", "search.top_k", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Set search.top_k = 7")

	out, err = executeCommand(t, "", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Top K: 7")
}

func TestSettingsCmd_SetInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown key", args: []string{"settings", "set", "search.mode", "hybrid"}},
		{name: "bad int", args: []string{"settings", "set", "search.top_k", "many"}},
		{name: "bad backend", args: []string{"settings", "set", "vector_index.backend", "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices(t)
			defer cleanup()

			_, err := executeCommand(t, "", tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
		})
	}
}

func TestSettingsCmd_Key(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "jina_abcdefghijkl\n", "settings", "key", "jina")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter Jina API key: ")
	assert.Contains(t, out, "Jina API key saved (jina...ijkl)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "jina_abcdefghijkl", settings.Embedding.APIKey)
}

func TestSettingsCmd_KeyErrors(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand(t, "\n", "settings", "key", "pinecone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")

	_, err = executeCommand(t, "k\n", "settings", "key", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown service "openai"`)
}

func TestSettingsCmd_Path(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "", "settings", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(env.configDir, "config.toml"))
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	newSettings = nil

	_, err := executeCommand(t, "", "settings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
