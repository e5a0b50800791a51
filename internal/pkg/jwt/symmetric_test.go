package jwt

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (c stubClock) Now() time.Time {
	return c.now
}

type stubUUID struct{}

func (stubUUID) Generate() string {
	return "token-id-1"
}

func testConfig(secret []byte, now time.Time) Config {
	return Config{
		Secret:     secret,
		Issuer:     "dataroom",
		Audiences:  []string{"dataroom-api"},
		TTLMinutes: 24 * time.Hour,
		Clock:      stubClock{now: now},
		UUID:       stubUUID{},
	}
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	for _, size := range []int{0, 33, 63} {
		_, err := NewHS512(testConfig(bytes.Repeat([]byte("k"), size), time.Now()))
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("secret of %d bytes: expected ErrSigningKeyTooShort, got %v", size, err)
		}
	}

	if _, err := NewHS512(testConfig(bytes.Repeat([]byte("k"), 64), time.Now())); err != nil {
		t.Fatalf("64-byte secret rejected: %v", err)
	}
}

func TestSymmetricRoundTrip(t *testing.T) {
	secret := bytes.Repeat([]byte("s"), 64)
	s, err := NewHS512(testConfig(secret, time.Now()))
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}

	token, err := s.Generate(42, "pat@example.com", "investor")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.UserEmail != "pat@example.com" || claims.Role != "investor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "42" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
}

func TestSymmetricVerifyExpired(t *testing.T) {
	secret := bytes.Repeat([]byte("s"), 64)
	s, err := NewHS512(testConfig(secret, time.Now().Add(-48*time.Hour)))
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}

	token, err := s.Generate(42, "pat@example.com", "investor")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSymmetricVerifyWrongKey(t *testing.T) {
	now := time.Now()
	signer, err := NewHS512(testConfig(bytes.Repeat([]byte("a"), 64), now))
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}
	other, err := NewHS512(testConfig(bytes.Repeat([]byte("b"), 64), now))
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}

	token, err := signer.Generate(42, "pat@example.com", "investor")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong key")
	}
}
