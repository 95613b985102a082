package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"0", "0"},
		{"1", "1000000000000000000"},
		{"0.05", "50000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			wei, err := ParseEther(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wei.String())
		})
	}
}

func TestParseEther_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "1.0000000000000000001", "-1", "1,5"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseEther(in)
			assert.Error(t, err)
		})
	}
}

func TestFormatEther(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, "1.5", FormatEther(wei))
	assert.Equal(t, "0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "0", FormatEther(nil))
}
