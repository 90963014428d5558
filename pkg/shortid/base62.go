package shortid

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const base62Digits = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base62Radix = uint64(len(base62Digits))

// ErrInvalidBase62 is returned when a string cannot be decoded as base62.
var ErrInvalidBase62 = errors.New("invalid base62 string")

// Base62 encodes n without padding. Base62(0) is "0".
func Base62(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [11]byte // 62^11 > 2^64

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = base62Digits[n%base62Radix]
		n /= base62Radix
	}

	return string(buf[i:])
}

// DecodeBase62 is the inverse of Base62.
func DecodeBase62(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidBase62)
	}

	var n uint64

	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(base62Digits, s[i])
		if digit < 0 {
			return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidBase62, s[i], i)
		}

		if n > (math.MaxUint64-uint64(digit))/base62Radix {
			return 0, fmt.Errorf("%w: %q overflows uint64", ErrInvalidBase62, s)
		}

		n = n*base62Radix + uint64(digit)
	}

	return n, nil
}

// Suffix returns the first size characters of the base62 form of the hash
// of input. Shorter encodings are returned whole.
func Suffix(input string, size int) string {
	encoded := Base62(Hash(input))
	if size < 0 || len(encoded) <= size {
		return encoded
	}

	return encoded[:size]
}
