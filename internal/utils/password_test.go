package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoangit2k2/lovepink/internal/utils"
)

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, utils.ValidatePasswordStrength("strongpass1"))

	require.ErrorIs(t, utils.ValidatePasswordStrength("short1"), utils.ErrPasswordTooShort)
	require.ErrorIs(t, utils.ValidatePasswordStrength("12345678"), utils.ErrPasswordNoLetter)
	require.ErrorIs(t, utils.ValidatePasswordStrength("passwordonly"), utils.ErrPasswordNoDigit)
	require.ErrorIs(t, utils.ValidatePasswordStrength("pass word1"), utils.ErrPasswordHasSpaces)
}
