package radix

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Bases above this are written as ':'-separated decimal groups.
const maxAlphaBase = 36

const groupSep = ":"

// digitText renders a single digit. Up to base 10 it is a decimal digit,
// up to 36 a lowercase letter, above that a zero padded decimal group of
// two digits, or three from base 100.
func digitText(d, base uint32) string {
	switch {
	case base <= maxAlphaBase && d < 10:
		return string(rune('0' + d))
	case base <= maxAlphaBase:
		return string(rune('a' + d - 10))
	case base >= 100:
		return fmt.Sprintf("%03d", d)
	}
	return fmt.Sprintf("%02d", d)
}

// digits returns the big-endian digits of |n| in base.
func digits(n *big.Int, base uint32) []uint32 {
	if n.Sign() == 0 {
		return []uint32{0}
	}
	var out []uint32
	x := new(big.Int).Abs(n)
	b := new(big.Int).SetUint64(uint64(base))
	m := new(big.Int)
	for x.Sign() > 0 {
		x.QuoRem(x, b, m)
		out = append(out, uint32(m.Uint64()))
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// integerText renders |n| in base, prefixed with "-" when negative is set.
func integerText(n *big.Int, base uint32, negative bool) string {
	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	for i, d := range digits(n, base) {
		if i > 0 && base > maxAlphaBase {
			sb.WriteString(groupSep)
		}
		sb.WriteString(digitText(d, base))
	}
	return sb.String()
}

// fractionText renders the scaled fractional digits with trailing zero
// digits removed. Above base 36 at most eight groups are kept.
func fractionText(n *big.Int, base uint32) string {
	s := integerText(n, base, false)
	if base <= maxAlphaBase {
		return strings.TrimRight(s, "0")
	}
	groups := strings.Split(s, groupSep)
	if len(groups) > 8 {
		groups = groups[:8]
	}
	return strings.Join(trimZeroGroups(groups), groupSep)
}

// trimZeroGroups drops trailing all-zero groups, always keeping the first.
func trimZeroGroups(groups []string) []string {
	for len(groups) > 1 && strings.Trim(groups[len(groups)-1], "0") == "" {
		groups = groups[:len(groups)-1]
	}
	return groups
}

func digitValue(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'z':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}

// splitSign strips one leading sign character.
func splitSign(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "-"):
		return s[1:], true
	case strings.HasPrefix(s, "+"):
		return s[1:], false
	}
	return s, false
}

// parseDigits reads the unsigned digits of s, one character each up to
// base 36, ':'-separated decimal groups above.
func parseDigits(s string, base uint32) ([]uint32, error) {
	if s == "" {
		return nil, fmt.Errorf("no digits")
	}
	if base > maxAlphaBase {
		groups := strings.Split(s, groupSep)
		out := make([]uint32, len(groups))
		for i, g := range groups {
			v, err := strconv.ParseUint(g, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g, err)
			}
			if uint32(v) >= base {
				return nil, fmt.Errorf("group %q out of range for base %d", g, base)
			}
			out[i] = uint32(v)
		}
		return out, nil
	}
	out := make([]uint32, len(s))
	for i := 0; i < len(s); i++ {
		v, ok := digitValue(s[i])
		if !ok || v >= base {
			return nil, fmt.Errorf("digit %q out of range for base %d", s[i], base)
		}
		out[i] = v
	}
	return out, nil
}

// parseInteger parses a signed integral numeral in base.
func parseInteger(s string, base uint32) (*big.Int, error) {
	mag, neg := splitSign(strings.TrimSpace(s))
	n := new(big.Int)
	ds, err := parseDigits(mag, base)
	if err != nil {
		return nil, err
	}
	b := new(big.Int).SetUint64(uint64(base))
	for _, d := range ds {
		n.Mul(n, b)
		n.Add(n, new(big.Int).SetUint64(uint64(d)))
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// intValue converts n to float64, rounding to nearest.
func intValue(n *big.Int) float64 {
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// parseFraction sums the digits after the radix point as d/base^k.
func parseFraction(s string, base uint32) (float64, error) {
	if base <= maxAlphaBase {
		s = strings.TrimRight(s, "0")
	} else {
		s = strings.Join(trimZeroGroups(strings.Split(s, groupSep)), groupSep)
	}
	if s == "" {
		return 0, nil
	}
	ds, err := parseDigits(s, base)
	if err != nil {
		return 0, err
	}
	var sum float64
	scale := 1.0
	for _, d := range ds {
		scale *= float64(base)
		sum += float64(d) / scale
	}
	return sum, nil
}
