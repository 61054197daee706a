package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseMeasure converts a cell to a float64 using the longest leading numeric prefix,
// so "12 students" reads as 12. Empty, non-numeric and non-finite input yields 0.
//
// Examples:
//
//	ParseMeasure("10")      -> 10
//	ParseMeasure(" 2.5e1 ") -> 25
//	ParseMeasure("7abc")    -> 7
//	ParseMeasure("n/a")     -> 0
func ParseMeasure(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s shaped like [+-]digits[.digits][e[+-]digits].
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if frac := j - i - 1; frac > 0 || digits > 0 {
			digits += frac
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			end = j
		}
	}
	return s[:end]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
