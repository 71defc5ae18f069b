// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// mintToken builds an unsigned-key HS256 token for decode tests.
func mintToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	cred := mintToken(t, "user@example.com", exp)

	claims, err := Decode(cred)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, cred := range []string{"", "garbage", "a.b", "a.b.c.d", "!!!.@@@.###"} {
		if _, err := Decode(cred); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformed", cred, err)
		}
	}
}

func TestDecodeMissingExpiry(t *testing.T) {
	// A credential without exp cannot drive the refresh schedule; it is
	// rejected outright rather than partially trusted.
	cred := mintToken(t, "user@example.com", time.Time{})
	if _, err := Decode(cred); !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode err = %v, want ErrMalformed", err)
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Now()
	cred := mintToken(t, "u", now.Add(90*time.Second))

	d, ok := TimeRemaining(cred, now)
	if !ok {
		t.Fatal("ok = false")
	}
	// Unix truncation can shave under a second.
	if d < 89*time.Second || d > 90*time.Second {
		t.Errorf("remaining = %v", d)
	}
}

func TestTimeRemainingExpiredClampsToZero(t *testing.T) {
	now := time.Now()
	cred := mintToken(t, "u", now.Add(-time.Hour))

	d, ok := TimeRemaining(cred, now)
	if !ok {
		t.Fatal("ok = false, expired token still decodes")
	}
	if d != 0 {
		t.Errorf("remaining = %v, want 0", d)
	}
}

func TestTimeRemainingMalformed(t *testing.T) {
	if _, ok := TimeRemaining("not-a-token", time.Now()); ok {
		t.Error("ok = true for malformed credential")
	}
}

func TestTimeRemainingNoExpiry(t *testing.T) {
	cred := mintToken(t, "u", time.Time{})
	if _, ok := TimeRemaining(cred, time.Now()); ok {
		t.Error("ok = true for credential without expiry")
	}
}
