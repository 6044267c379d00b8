package utils

import (
	"crypto/md5"
	"fmt"
)

// HashString produces a stable hex digest used for cache keys. Not for
// anything security sensitive.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}
