package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
}

func TestMapFollowsJSONTags(t *testing.T) {
	p, err := Map[samplePayload](map[string]any{
		"userId": "u1",
		"limit":  float64(25), // what encoding/json produces for numbers
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 25, p.Limit)
}

func TestMapNilPayload(t *testing.T) {
	_, err := Map[samplePayload](nil)
	assert.Error(t, err)
}

func TestMapIgnoresUnknownKeys(t *testing.T) {
	p, err := Map[samplePayload](map[string]any{
		"userId":  "u1",
		"unknown": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
}
