package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// ShareTokenBytes is the entropy of a share token before encoding.
const ShareTokenBytes = 32

// GenerateShareToken returns a URL-safe random token suitable for share links.
func GenerateShareToken() (string, error) {
	return RandomURLString(ShareTokenBytes)
}

// RandomURLString returns n random bytes encoded as unpadded base64url.
func RandomURLString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
