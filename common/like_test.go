package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rock", "%rock%"},
		{"100%", "%100!%%"},
		{"a_b", "%a!_b%"},
		{"¡Hola!", "%¡hola!!%"},
		{"", "%%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsPattern(tt.in), tt.in)
	}
}
