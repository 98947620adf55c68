// Package secret generates random passwords and signing keys.
package secret

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// PasswordLen is the length of generated passwords, about 95 bits of entropy.
	PasswordLen = 16

	// KeyLen is the length of generated signing keys, about 380 bits of entropy.
	KeyLen = 64

	// byteRange is the number of possible byte values.
	byteRange = 256
)

// Chars is the alphabet of generated passwords and keys.
var Chars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals

// ErrCharset is returned for alphabets with less than 2 or more than 256 characters.
var ErrCharset = errors.New("secret: alphabet must hold 2 to 256 characters")

// Password returns a random password of PasswordLen characters.
func Password() (string, error) {
	return Generate(PasswordLen, Chars)
}

// Key returns a random signing key of KeyLen characters.
func Key() (string, error) {
	return Generate(KeyLen, Chars)
}

// Generate returns length characters drawn uniformly from chars.
// Bytes above the largest multiple of len(chars) are rejected, so no character is favoured.
func Generate(length int, chars []byte) (string, error) {
	n := len(chars)
	if n < 2 || n > byteRange {
		return "", ErrCharset
	}

	if length <= 0 {
		return "", nil
	}

	limit := byteRange - byteRange%n
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("secret: read random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
