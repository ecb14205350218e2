package code

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var teamCodeRe = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestNewOTP_SixDigitsInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := NewOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		n, err := strconv.Atoi(otp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNewTeamCode_Alphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		c, err := NewTeamCode()
		require.NoError(t, err)
		assert.Regexp(t, teamCodeRe, c)
	}
}
