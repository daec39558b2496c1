package auth

import (
	"errors"
	"testing"
	"time"

	"anoa.com/mediannsp/internal/entity"
	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user := &entity.User{ID: 7, Username: "alice", RoleID: 2}

	token, expiresAt, err := m.Generate(user)
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(expiresAt); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("expiry %v not one hour away", expiresAt)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.RoleID != 2 || claims.Subject != "7" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatal("iat/exp missing")
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Generate(&entity.User{ID: 1})
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	other, _, _ := NewTokenManager("other-secret", time.Hour).Generate(&entity.User{ID: 1})
	if _, err := m.Parse(other); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret: err = %v", err)
	}

	if _, err := m.Parse("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage: err = %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Parse(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("alg none: err = %v", err)
	}
}
