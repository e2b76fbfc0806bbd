package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withProduction(t *testing.T, production bool) {
	t.Helper()
	prev := IsProduction
	SetProduction(production)
	t.Cleanup(func() { SetProduction(prev) })
}

func TestMasking_Production(t *testing.T) {
	withProduction(t, true)

	assert.Equal(t, "***@***.***", MaskEmail("meera@example.com"))
	assert.Equal(t, "", MaskEmail(""))
	assert.Equal(t, "550e8400...", MaskID("550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, "***", MaskID("g1"))
	assert.Equal(t, "***10", MaskPhone("+919876543210"))
	assert.Equal(t, "**", MaskPhone("12"))

	assert.Equal(t,
		"write to ***@***.*** or +** *** ****",
		MaskString("write to meera@example.com or +91 98765 43210"))
	assert.Equal(t, "guest 550e8400...", MaskString("guest 550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, "production", GetEnvMode())
}

func TestMasking_Development(t *testing.T) {
	withProduction(t, false)

	assert.Equal(t, "meera@example.com", MaskEmail("meera@example.com"))
	assert.Equal(t, "g1", MaskID("g1"))
	assert.Equal(t, "+919876543210", MaskPhone("+919876543210"))
	assert.Equal(t, "call +91 98765 43210", MaskString("call +91 98765 43210"))
	assert.Equal(t, "development", GetEnvMode())
}
