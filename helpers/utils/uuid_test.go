package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	assert.True(t, ValidRequestID(a))
}

func TestGenerateShortID(t *testing.T) {
	id := GenerateShortID()
	assert.Len(t, id, 8)
	assert.NotContains(t, id, "-")
}

func TestValidRequestID(t *testing.T) {
	assert.False(t, ValidRequestID(""))
	assert.False(t, ValidRequestID("not-a-uuid"))
	assert.True(t, ValidRequestID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}
