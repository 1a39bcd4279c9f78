package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, exp, err := m.GenerateSessionToken("sid-1", "amy", "chef")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry %s should be in the future", exp)
	}

	claims, err := m.VerifySessionToken(raw)
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}
	if claims.SessionID != "sid-1" || claims.Username != "amy" || claims.Role != "chef" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	raw, _, err := NewManager("a", time.Hour).GenerateSessionToken("sid", "u", "user")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	if _, err := NewManager("b", time.Hour).VerifySessionToken(raw); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestSessionToken_Expired(t *testing.T) {
	m := NewManager("s", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, _, err := m.GenerateSessionToken("sid", "u", "user")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	m.now = time.Now
	if _, err := m.VerifySessionToken(raw); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestSessionToken_WrongType(t *testing.T) {
	m := NewManager("s", time.Minute)

	claims := Claims{
		SessionID: "sid",
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifySessionToken(raw); err != ErrInvalidTokenType {
		t.Fatalf("err = %v, want ErrInvalidTokenType", err)
	}
}
