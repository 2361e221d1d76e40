package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	charset         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortCodeLength = 8
	maxShortCodeLen = 32

	unbiasedLimit = 256 - 256%len(charset)
)

// ShortCode is the public identifier of a clip, used in URLs.
type ShortCode struct {
	code string
}

// GenerateShortCode returns a random short code. Uniqueness is enforced by
// storage, so callers must be prepared to retry on conflict.
func GenerateShortCode() ShortCode {
	code := make([]byte, 0, shortCodeLength)
	buf := make([]byte, shortCodeLength*2)
	for len(code) < shortCodeLength {
		// rand.Read never returns an error since Go 1.24.
		_, _ = rand.Read(buf)
		for _, v := range buf {
			// bytes at or above the limit would bias the low characters
			if int(v) >= unbiasedLimit {
				continue
			}
			code = append(code, charset[int(v)%len(charset)])
			if len(code) == shortCodeLength {
				break
			}
		}
	}
	return ShortCode{code: string(code)}
}

// ParseShortCode validates a short code received from a caller or from storage.
func ParseShortCode(s string) (ShortCode, error) {
	if s == "" {
		return ShortCode{}, fmt.Errorf("%w: empty", ErrInvalidShortCode)
	}
	if len(s) > maxShortCodeLen {
		return ShortCode{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidShortCode, maxShortCodeLen)
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return !strings.ContainsRune(charset, r) }); i >= 0 {
		return ShortCode{}, fmt.Errorf("%w: unexpected character at %d", ErrInvalidShortCode, i)
	}
	return ShortCode{code: s}, nil
}

func (s ShortCode) String() string {
	return s.code
}

func (s ShortCode) MarshalText() ([]byte, error) {
	return []byte(s.code), nil
}
