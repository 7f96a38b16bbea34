package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("correct", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	b, err := HashPassword("correct", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if a == b {
		t.Error("two digests of the same password should differ")
	}
	if strings.Contains(a, "correct") {
		t.Error("digest contains the plain password")
	}
}

func TestCheckPassword(t *testing.T) {
	digest, err := HashPassword("correct", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	sum := sha256.Sum256([]byte("correct"))
	legacy := hex.EncodeToString(sum[:])

	tests := []struct {
		name       string
		digest     string
		plain      string
		wantMatch  bool
		wantLegacy bool
	}{
		{"bcrypt match", digest, "correct", true, false},
		{"bcrypt mismatch", digest, "wrong", false, false},
		{"legacy match", legacy, "correct", true, true},
		{"legacy uppercase digest rejected", strings.ToUpper(legacy), "correct", false, false},
		{"legacy mismatch", legacy, "wrong", false, false},
		{"empty digest", "", "correct", false, false},
		{"garbage digest", "not-a-digest", "correct", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, isLegacy := CheckPassword(tt.digest, tt.plain)
			if match != tt.wantMatch || isLegacy != tt.wantLegacy {
				t.Errorf("CheckPassword() = (%v, %v), want (%v, %v)", match, isLegacy, tt.wantMatch, tt.wantLegacy)
			}
		})
	}
}
