package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexfone/portfix/internal/fixer/domain"
)

func TestExpandSingleNumber(t *testing.T) {
	exp, err := domain.Expand("0449510080")
	require.NoError(t, err)
	require.Len(t, exp.Pairs, 1)
	assert.Equal(t, "0449510080", exp.Pairs[0].National)
	assert.Equal(t, "41449510080", exp.Pairs[0].E164)
}

func TestExpandShortSuffixRange(t *testing.T) {
	exp, err := domain.Expand("0449510080-89")
	require.NoError(t, err)
	require.Len(t, exp.Pairs, 10)

	for i, pair := range exp.Pairs {
		assert.Equal(t, fmt.Sprintf("04495100%d", 80+i), pair.National)
		assert.Equal(t, fmt.Sprintf("414495100%d", 80+i), pair.E164)
	}
}

func TestExpandSingleDigitSuffix(t *testing.T) {
	exp, err := domain.Expand("0449510080-9")
	require.NoError(t, err)
	require.Len(t, exp.Pairs, 10)
	assert.Equal(t, "0449510080", exp.Pairs[0].National)
	assert.Equal(t, "0449510089", exp.Pairs[9].National)
}

func TestExpandFullEndNumber(t *testing.T) {
	exp, err := domain.Expand("0449510080-0449510089")
	require.NoError(t, err)
	require.Len(t, exp.Pairs, 10)
	assert.Equal(t, "0449510089", exp.Pairs[9].National)
}

func TestExpandE164Base(t *testing.T) {
	exp, err := domain.Expand("41449510080-82")
	require.NoError(t, err)
	require.Len(t, exp.Pairs, 3)
	assert.Equal(t, "41449510082", exp.Pairs[2].E164)
	assert.Equal(t, "0449510082", exp.Pairs[2].National)
}

func TestExpandStartEqualsEnd(t *testing.T) {
	exp, err := domain.Expand("0449510080-80")
	require.NoError(t, err)
	require.Len(t, exp.Pairs, 1)
	assert.Equal(t, "0449510080", exp.Pairs[0].National)
}

func TestExpandExactlyAtCap(t *testing.T) {
	exp, err := domain.Expand("0449510000-99")
	require.NoError(t, err)
	assert.Len(t, exp.Pairs, 100)
	assert.Equal(t, "0449510000", exp.Pairs[0].National)
	assert.Equal(t, "0449510099", exp.Pairs[99].National)
}

func TestExpandOverCapFails(t *testing.T) {
	// 101 numbers via a full end number one past the cap.
	_, err := domain.Expand("0449510000-0449510100")
	assert.ErrorIs(t, err, domain.ErrRangeTooLarge)
}

func TestExpandSuffixLongerThanReplaceableTail(t *testing.T) {
	_, err := domain.Expand("0449510080-989")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestExpandEndBeforeStart(t *testing.T) {
	_, err := domain.Expand("0449510089-80")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestExpandRejectsBadTokens(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"non-digit number", "44951008X", domain.ErrInvalidFormat},
		{"non-digit suffix", "0449510080-8X", domain.ErrInvalidFormat},
		{"empty suffix", "0449510080-", domain.ErrInvalidFormat},
		{"bad base", "123-80", domain.ErrInvalidFormat},
		{"empty", "", domain.ErrInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.Expand(tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExpandNoDuplicates(t *testing.T) {
	exp, err := domain.Expand("0449510080-89")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, pair := range exp.Pairs {
		assert.False(t, seen[pair.National], "duplicate national %s", pair.National)
		seen[pair.National] = true
	}
}

func TestExpansionAccessorsPreserveOrder(t *testing.T) {
	exp, err := domain.Expand("0449510080-82")
	require.NoError(t, err)

	assert.Equal(t, []string{"0449510080", "0449510081", "0449510082"}, exp.Nationals())
	assert.Equal(t, []string{"41449510080", "41449510081", "41449510082"}, exp.DNs())
	assert.Equal(t, []string{
		"nprn:routing:41449510080",
		"nprn:routing:41449510081",
		"nprn:routing:41449510082",
	}, exp.RoutingKeys())
}
