package domain

import (
	"fmt"
	"strings"
)

// Numbering plan constants. The deployment is Swiss: canonical national
// numbers are ten digits with a leading zero, the E.164-digits form swaps
// the zero for the country code.
const (
	CountryCode     = "41"
	NationalLength  = 10
	E164DigitLength = 11
)

// RoutingKeyPrefix is the namespace the routing cache stores its
// per-number keys under.
const RoutingKeyPrefix = "nprn:routing:"

// NumberPair holds the two canonical forms of one subscriber number.
// National is the provisioning-table key ("0449510080"); E164 is the
// digits-only E.164 form ("41449510080") used as the number-pool key and
// routing-key suffix. The two forms always describe the same number.
type NumberPair struct {
	National string `json:"national"`
	E164     string `json:"e164"`
}

// RoutingKey builds the routing-cache key for this number.
func (p NumberPair) RoutingKey() string {
	return RoutingKeyPrefix + p.E164
}

// Normalize parses one token into both canonical forms. It accepts either
// the national form (leading zero) or the E.164-digits form (leading
// country code, no '+'); surrounding whitespace is ignored. Anything else
// fails with ErrInvalidFormat.
func Normalize(token string) (NumberPair, error) {
	raw := strings.TrimSpace(token)
	if raw == "" || !allDigits(raw) {
		return NumberPair{}, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}

	switch {
	case len(raw) == NationalLength && strings.HasPrefix(raw, "0"):
		return NumberPair{National: raw, E164: CountryCode + raw[1:]}, nil
	case len(raw) == E164DigitLength && strings.HasPrefix(raw, CountryCode):
		return NumberPair{National: "0" + raw[len(CountryCode):], E164: raw}, nil
	}
	return NumberPair{}, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
