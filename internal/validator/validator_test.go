package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRgxBEP20Address(t *testing.T) {
	valid := []string{
		"0x1234567890abcdefABCDEF1234567890abcdefAB",
		"0x0000000000000000000000000000000000000000",
		"0xffffffffffffffffffffffffffffffffffffffff",
	}
	for _, address := range valid {
		require.True(t, Matches(address, RgxBEP20Address), "expected %q to be accepted", address)
	}

	invalid := []string{
		"",
		"0x",
		"1234567890abcdefABCDEF1234567890abcdefAB",
		"0x1234567890abcdefABCDEF1234567890abcdefA",
		"0x1234567890abcdefABCDEF1234567890abcdefABC",
		"0x1234567890abcdefABCDEF1234567890abcdefAG",
		"0x 234567890abcdefABCDEF1234567890abcdefAB",
	}
	for _, address := range invalid {
		require.False(t, Matches(address, RgxBEP20Address), "expected %q to be rejected", address)
	}
}

func TestValidatorCheck(t *testing.T) {
	var v Validator

	v.Check(true, "should not be recorded")
	require.False(t, v.HasErrors())

	v.Check(false, "amount is required")
	require.True(t, v.HasErrors())
	require.Equal(t, []string{"amount is required"}, v.Errors)
}
