package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LoadsEmbeddedProviders(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"anthropic", "gemini"}, r.GetAllProviders())

	models, err := r.ListProviderModels("gemini")
	require.NoError(t, err)
	require.NotEmpty(t, models)
	assert.Equal(t, "gemini-2.5-flash", models[0].ID, "YAML order is kept")
}

func TestRegistry_GetModelCapabilities(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	caps, err := r.GetModelCapabilities("anthropic", "claude-haiku-4-5")
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", caps.ID)
	assert.False(t, caps.SupportsJSONMode)
	assert.Positive(t, caps.MaxOutput)

	_, err = r.GetModelCapabilities("anthropic", "gpt-4")
	assert.Error(t, err)

	_, err = r.GetModelCapabilities("openai", "gpt-4")
	assert.Error(t, err)
}

func TestRegistry_MaxOutput(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, 65536, r.MaxOutput("gemini", "gemini-2.5-flash", 1))
	assert.Equal(t, 4096, r.MaxOutput("gemini", "gemini-unknown", 4096))
}
