package hash

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	iterations = 1000
	keyBytes   = 64
)

// Password derives a pbkdf2 credential encoded as "salt:hash", both hex.
func Password(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha512.New)
	return fmt.Sprintf("%s:%s", hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

// Verify re-derives the key from the stored salt and compares.
func Verify(password, stored string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyBytes, sha512.New)
	return hex.EncodeToString(key) == parts[1]
}
