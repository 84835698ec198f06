package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a, ,b ,"))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PCS_STR", "value")
	t.Setenv("PCS_INT", "42")
	t.Setenv("PCS_BAD_INT", "forty")
	t.Setenv("PCS_BOOL", "true")
	t.Setenv("PCS_BAD_BOOL", "maybe")

	assert.Equal(t, "value", EnvDefault("PCS_STR", "def"))
	assert.Equal(t, "def", EnvDefault("PCS_MISSING", "def"))

	assert.Equal(t, 42, EnvIntDefault("PCS_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("PCS_BAD_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("PCS_MISSING", 1))

	assert.True(t, EnvBoolDefault("PCS_BOOL", false))
	assert.False(t, EnvBoolDefault("PCS_BAD_BOOL", false))
	assert.True(t, EnvBoolDefault("PCS_MISSING", true))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, NonEmpty("x", "X"))
	assert.EqualError(t, NonEmpty("", "X"), "missing required env X")

	assert.NoError(t, OneOf("file", "STORE_DRIVER", "file", "sqlite"))
	assert.Error(t, OneOf("mongo", "STORE_DRIVER", "file", "sqlite"))
}
