package service

import (
	"testing"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedemptionCode(t *testing.T) {
	code, err := NewRedemptionCode("VIP", "  Ana   María\tPérez ", "1020304050")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(code), &payload))
	assert.Equal(t, "VIP", payload["tipo"])
	assert.Equal(t, "Ana_María_Pérez", payload["nombre"])
	assert.Equal(t, "1020304050", payload["identificacion"])

	id, err := uuid.Parse(payload["id"])
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())

	assert.NotContains(t, code, " ", "payload is compact JSON")
}

func TestNewRedemptionCode_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := NewRedemptionCode("General", "Ana", "1")
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup)
		seen[code] = struct{}{}
	}
}
