package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/docindex/internal/config"
)

func TestConfigTemplate_MatchesDefaults(t *testing.T) {
	// Given: the embedded template
	require.NotEmpty(t, ConfigTemplate)

	// When: decoding it
	var parsed config.Config
	require.NoError(t, yaml.Unmarshal([]byte(ConfigTemplate), &parsed))

	// Then: it documents exactly the built-in defaults
	assert.Equal(t, *config.NewConfig(), parsed)
}
