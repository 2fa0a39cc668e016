package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GetGravatarURL builds the Gravatar URL for an email address. It is the
// avatar fallback for profiles without an avatar of their own; "d=mp" yields
// the generic silhouette for unknown addresses.
func GetGravatarURL(email string, size int) string {
	if size <= 0 {
		size = 200
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
