package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. Changing them invalidates every stored digest.
const (
	scryptN   = 1 << 14
	scryptR   = 8
	scryptP   = 1
	keyLen    = 64
	saltLen   = 16
	digestSep = "."
)

// HashPassword derives a salted scrypt key for password and encodes it as
// hex(key) + "." + hex(salt).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + digestSep + hex.EncodeToString(salt), nil
}

// VerifyPassword reports whether password matches digest. A malformed
// digest is simply a mismatch.
func VerifyPassword(password, digest string) bool {
	keyHex, saltHex, ok := strings.Cut(digest, digestSep)
	if !ok {
		return false
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) != keyLen {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	got, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
