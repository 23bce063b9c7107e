package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint64
		wantErr  bool
	}{
		{"bytes suffix", "10B", 10, false},
		{"kilobytes", "2KB", 2 << 10, false},
		{"megabytes", "3MB", 3 << 20, false},
		{"gigabytes", "1GB", 1 << 30, false},
		{"no suffix", "1024", 1024, false},
		{"plain zero disables rotation", "0", 0, false},
		{"zero bytes", "0B", 0, false},
		{"zero gigabytes", "0GB", 0, false},
		{"lower case", "10mb", 10 << 20, false},
		{"mixed case", "5Gb", 5 << 30, false},
		{"inner spaces", "128 MB", 128 << 20, false},
		{"outer spaces", "  64  KB  ", 64 << 10, false},
		{"max uint64", "18446744073709551615", 18446744073709551615, false},
		{"largest gigabytes", "17179869183GB", 17179869183 << 30, false},

		{"suffix only", "B", 0, true},
		{"unit only", "kb", 0, true},
		{"unknown suffix", "10XB", 0, true},
		{"float", "12.3MB", 0, true},
		{"negative", "-5KB", 0, true},
		{"not a number", "ABCD", 0, true},
		{"unsupported unit", "100PB", 0, true},
		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"double suffix", "123BB", 0, true},
		{"multiplied overflow", "17179869184GB", 0, true},
		{"number overflow", "9999999999999999999999999999999GB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSize(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
