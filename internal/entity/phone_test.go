package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneValidFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+16502530000", "+16502530000"},
		{"+1 (650) 253-0000", "+16502530000"},
		{"  +1-650-253-0000  ", "+16502530000"},
		{"+44 20 7031 3000", "+442070313000"},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizePhoneInvalid(t *testing.T) {
	for _, in := range []string{"", "not a number", "12345", "+1", "+1234567"} {
		_, err := NormalizePhone(in)
		require.Error(t, err, in)
		assert.True(t, IsValidationError(err), in)
	}
}
