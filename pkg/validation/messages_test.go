package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomMessageOverridesDefault(t *testing.T) {
	assert.Equal(t, "URL is required", CustomMessage("longUrl")["required"])
	assert.Nil(t, CustomMessage("customUrl"))
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "customUrl is required", DefaultMessage("customUrl", "required", ""))
	assert.Equal(t, "name must be at most 100 characters", DefaultMessage("name", "max", "100"))
	assert.Equal(t, "name is invalid", DefaultMessage("name", "unknown", ""))
}
