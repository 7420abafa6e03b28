// Package units parses engineering notation such as "4.7k", "1uF" or
// "10meg" into plain float64 values.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmpty is returned when the input holds no number.
var ErrEmpty = errors.New("empty value")

var prefixes = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"M":   1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"µ":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

// Unit symbols accepted after the prefix. Matching is case sensitive so
// that "m" (milli) and "M" (mega) stay distinct.
var symbols = []string{"ohms", "ohm", "Ω", "V", "A", "F", "s"}

// Parse converts s to a number. The numeric part is followed by an optional
// SI prefix and an optional unit symbol: "100", "100ohm", "4.7k", "1uF",
// "2.2 mV".
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}
	num, rest := splitNumber(s)
	if num == "" {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	rest = strings.TrimSpace(rest)
	for _, sym := range symbols {
		if strings.HasSuffix(rest, sym) {
			rest = strings.TrimSuffix(rest, sym)
			break
		}
	}
	if rest == "" {
		return x, nil
	}
	mul, ok := prefixes[rest]
	if !ok {
		// "F" alone was already consumed as farad; "f" is femto.
		return 0, fmt.Errorf("unknown suffix %q in %q", rest, s)
	}
	return x * mul, nil
}

// splitNumber returns the leading float literal of s and the remainder.
func splitNumber(s string) (string, string) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		if isDigit(s[i]) {
			digits = true
		}
		i++
	}
	if !digits {
		return "", s
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i], s[i:]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Format renders x with the largest prefix that keeps the mantissa >= 1.
func Format(x float64, unit string) string {
	if x == 0 {
		return "0" + unit
	}
	abs := x
	if abs < 0 {
		abs = -abs
	}
	for _, p := range ordered {
		if abs >= p.mul {
			return strconv.FormatFloat(x/p.mul, 'g', 4, 64) + p.sym + unit
		}
	}
	last := ordered[len(ordered)-1]
	return strconv.FormatFloat(x/last.mul, 'g', 4, 64) + last.sym + unit
}

var ordered = []struct {
	sym string
	mul float64
}{
	{"T", 1e12}, {"G", 1e9}, {"M", 1e6}, {"k", 1e3}, {"", 1},
	{"m", 1e-3}, {"u", 1e-6}, {"n", 1e-9}, {"p", 1e-12}, {"f", 1e-15},
}
