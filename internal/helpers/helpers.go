package helpers

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/sirupsen/logrus"
)

// GenerateRandomString returns a URL-safe random string of the given length,
// used for article slugs. It returns "" if the system randomness source fails.
func GenerateRandomString(length int) string {
	if length <= 0 {
		return ""
	}
	// six bits per character
	randomBytes := make([]byte, (length*6+7)/8)
	if _, err := rand.Read(randomBytes); err != nil {
		logrus.WithError(err).Error("Error generating random string")
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes)[:length]
}
