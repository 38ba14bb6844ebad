package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxExpansion caps how many numbers one range token may cover.
	MaxExpansion = 100
	// RangeSeparator splits a range token into base and end suffix.
	RangeSeparator = "-"
)

// maxSuffixDigits bounds the short-suffix range form ("0449510080-89"). A
// suffix that replaces more than two trailing digits is ambiguous against
// the expansion cap, so longer end values must be written out as a full
// number of the same length as the base.
const maxSuffixDigits = 2

// Expansion is the ordered, de-duplicated set of number pairs one input
// token covers. It is the single source of truth for every fix operation:
// dry-run and real-run derive their affected sets from the same Expansion.
type Expansion struct {
	Pairs []NumberPair
}

// Nationals returns the national form of every pair, in expansion order.
func (e Expansion) Nationals() []string {
	out := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		out[i] = p.National
	}
	return out
}

// DNs returns the E.164-digits form of every pair, in expansion order.
func (e Expansion) DNs() []string {
	out := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		out[i] = p.E164
	}
	return out
}

// RoutingKeys returns the routing-cache key of every pair, in expansion order.
func (e Expansion) RoutingKeys() []string {
	out := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		out[i] = p.RoutingKey()
	}
	return out
}

// Expand parses one input token into an Expansion. A token without the
// range separator expands to a single pair. A range token is a valid base
// number, the separator, and either a full end number of the same digit
// length or a short all-digit suffix overwriting the base's trailing
// digits. The covered values ascend from base to end inclusive; the
// expansion is capped at MaxExpansion and de-duplicated by national form
// in first-seen order.
func Expand(token string) (Expansion, error) {
	s := strings.TrimSpace(token)

	if !strings.Contains(s, RangeSeparator) {
		pair, err := Normalize(s)
		if err != nil {
			return Expansion{}, err
		}
		return Expansion{Pairs: []NumberPair{pair}}, nil
	}

	baseTok, suffix, _ := strings.Cut(s, RangeSeparator)
	if _, err := Normalize(baseTok); err != nil {
		return Expansion{}, err
	}
	baseDigits := strings.TrimSpace(baseTok)

	suffix = strings.TrimSpace(suffix)
	if suffix == "" || !allDigits(suffix) {
		return Expansion{}, fmt.Errorf("%w: range end %q is not numeric", ErrInvalidFormat, suffix)
	}

	var endDigits string
	switch {
	case len(suffix) == len(baseDigits):
		endDigits = suffix
	case len(suffix) <= maxSuffixDigits:
		endDigits = baseDigits[:len(baseDigits)-len(suffix)] + suffix
	default:
		return Expansion{}, fmt.Errorf("%w: range end %q replaces more than %d trailing digits", ErrInvalidFormat, suffix, maxSuffixDigits)
	}

	start, err := strconv.ParseInt(baseDigits, 10, 64)
	if err != nil {
		return Expansion{}, fmt.Errorf("%w: %q", ErrInvalidFormat, baseTok)
	}
	end, err := strconv.ParseInt(endDigits, 10, 64)
	if err != nil {
		return Expansion{}, fmt.Errorf("%w: %q", ErrInvalidFormat, suffix)
	}

	if end < start {
		return Expansion{}, fmt.Errorf("%w: %s-%s", ErrInvalidRange, baseDigits, endDigits)
	}
	span := end - start + 1
	if span > MaxExpansion {
		return Expansion{}, fmt.Errorf("%w: %d numbers (max %d)", ErrRangeTooLarge, span, MaxExpansion)
	}

	width := len(baseDigits)
	pairs := make([]NumberPair, 0, span)
	seen := make(map[string]struct{}, span)
	for n := start; n <= end; n++ {
		pair, err := Normalize(fmt.Sprintf("%0*d", width, n))
		if err != nil {
			return Expansion{}, err
		}
		if _, dup := seen[pair.National]; dup {
			continue
		}
		seen[pair.National] = struct{}{}
		pairs = append(pairs, pair)
	}
	return Expansion{Pairs: pairs}, nil
}
