package couponcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.True(t, Valid(code), "code %q does not match XXXX-XXXX-XXXX", code)
	}
}

func TestGenerateUnique_SkipsExisting(t *testing.T) {
	existing := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := GenerateUnique(existing)
		require.NoError(t, err)

		_, seen := existing[code]
		assert.False(t, seen, "duplicate code %q", code)
		existing[code] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"AB12-CD34-EF56", true},
		{"ABCD-EFGH-IJKL", true},
		{"1234-5678-9012", true},
		{"ab12-cd34-ef56", false},
		{"AB12CD34EF56", false},
		{"AB12-CD34", false},
		{"AB12-CD34-EF5", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.code), "code %q", tt.code)
	}
}
