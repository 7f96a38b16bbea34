package core

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// legacyDigestLen is the length of a hex SHA-256 digest, the format used by
// accounts created before bcrypt.
const legacyDigestLen = sha256.Size * 2

// HashPassword returns a salted bcrypt digest of plain.
func HashPassword(plain string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches digest. legacy is true when
// the match was against an unsalted SHA-256 digest that should be replaced.
func CheckPassword(digest, plain string) (match, legacy bool) {
	if isLegacyDigest(digest) {
		sum := sha256.Sum256([]byte(plain))
		want := hex.EncodeToString(sum[:])
		ok := subtle.ConstantTimeCompare([]byte(want), []byte(digest)) == 1
		return ok, ok
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil, false
}

func isLegacyDigest(digest string) bool {
	if len(digest) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
