package identity

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet omits 0/O and 1/I so codes survive being read aloud or typed
// from a printed card.
const (
	codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength   = 8
)

// GenerateCode returns a random 8-character uppercase check-in code.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading randomness: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
