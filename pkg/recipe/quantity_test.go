package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		qty  float64
		unit string
		ok   bool
	}{
		{"250 g", 250, "g", true},
		{"1,5 kg", 1.5, "kg", true},
		{"  2.25   cuillères à soupe ", 2.25, "cuillères à soupe", true},
		{"3", 3, "", true},
		{"12ml", 12, "ml", true},
		{"une pincée", 0, "", false},
		{"", 0, "", false},
		{"-2 g", 0, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			qty, unit, ok := ParseQuantity(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.qty, qty)
			assert.Equal(t, tc.unit, unit)
		})
	}
}
