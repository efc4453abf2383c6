package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultGeminiConfig(t *testing.T) {
	cfg := DefaultGeminiConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
}

func TestGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierStandard: "gemini-2.5-flash"},
	}
	// Unknown tier falls back to standard.
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierAdvanced))

	cfg = &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "gemini-2.5-flash-lite"},
	}
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierAdvanced))

	cfg = &Config{Provider: ProviderGemini}
	assert.Equal(t, "", cfg.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	base := DefaultGeminiConfig()
	custom := base.WithModel(TierAdvanced, "gemini-exp")

	assert.Equal(t, "gemini-exp", custom.GetModel(TierAdvanced))
	// Original untouched.
	assert.Equal(t, "gemini-2.5-pro", base.GetModel(TierAdvanced))
	// Other tiers carried over.
	assert.Equal(t, "gemini-2.5-flash", custom.GetModel(TierStandard))
}
