package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by ParseRGB for input that is not a 24-bit
// hex color.
var ErrInvalidColor = errors.New("invalid color")

// FormatHex renders v as at least six uppercase hex digits.
func FormatHex(v uint32) string {
	return fmt.Sprintf("%06X", v)
}

// ParseHex converts s the way the C library's strtoul(s, NULL, 16) does on a
// 32-bit target: leading whitespace and an optional sign are accepted, an
// optional 0x prefix is skipped, and the longest run of hex digits is used.
// No digits yields 0, a leading '-' negates modulo 2^32, and values that do
// not fit saturate to 0xFFFFFFFF.
func ParseHex(s string) uint32 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	// "0x" only counts as a prefix when a hex digit follows it; otherwise
	// the leading 0 is the number.
	if i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		if _, ok := hexDigit(s[i+2]); ok {
			i += 2
		}
	}

	var v uint64
	overflow := false
	for ; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			break
		}
		if !overflow {
			v = v<<4 | uint64(d)
			if v > math.MaxUint32 {
				overflow = true
			}
		}
	}

	if overflow {
		return math.MaxUint32
	}
	if negative {
		return uint32(-v)
	}
	return uint32(v)
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}

// ParseRGB parses a color typed by a user: an optional '#' or 0x prefix
// followed by one to six hex digits. Unlike ParseHex it rejects anything
// else.
func ParseRGB(s string) (uint32, error) {
	digits := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	}
	if digits == "" || len(digits) > 6 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	return uint32(v), nil
}
