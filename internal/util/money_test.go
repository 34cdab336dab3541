package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"plain dollars", "$110.25", 110.25, false},
		{"thousands separator", "$1,234.56", 1234.56, false},
		{"no symbol", "500.00", 500.00, false},
		{"negative", "-$12.00", -12.00, false},
		{"whitespace", "  $90.00  ", 90.00, false},
		{"empty", "", 0, true},
		{"symbol only", "$", 0, true},
		{"garbage", "N/A", 0, true},
		{"trailing text", "$10.00 USD", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$110.25", FormatAmount(110.25))
	assert.Equal(t, "$0.00", FormatAmount(0))
	assert.Equal(t, "-$12.50", FormatAmount(-12.5))
	assert.Equal(t, "$1234.56", FormatAmount(1234.56))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []float64{0, 0.01, 110.25, 754.18} {
		parsed, err := ParseAmount(FormatAmount(amount))
		require.NoError(t, err)
		assert.InDelta(t, amount, parsed, 0.001)
	}
}
