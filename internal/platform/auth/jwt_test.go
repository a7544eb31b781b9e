package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"metricly/internal/platform/config"
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.JWTConfig{
		Secret:                   secret,
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 60,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t, "secret")

	token, err := svc.Issue("user-1", 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != time.Hour {
		t.Errorf("ttl = %v, want default 1h", ttl)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	svc := newTestTokenService(t, "secret")
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ttl := 10 * time.Minute

	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue("user-1", ttl)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"at issue", issuedAt, nil},
		{"just before expiry", issuedAt.Add(ttl - time.Second), nil},
		{"at expiry", issuedAt.Add(ttl), ErrTokenExpired},
		{"after expiry", issuedAt.Add(ttl + time.Hour), ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			svc.now = func() time.Time { return at }
			_, err := svc.Verify(token)
			if err != tt.wantErr {
				t.Errorf("Verify at %v: got %v, want %v", at, err, tt.wantErr)
			}
		})
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, "secret-a")
	verifier := newTestTokenService(t, "secret-b")

	token, err := issuer.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify with other secret: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_RejectsTampering(t *testing.T) {
	svc := newTestTokenService(t, "secret")
	token, err := svc.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	t.Run("corrupted signature", func(t *testing.T) {
		i := len(token) - 5
		replacement := "A"
		if token[i] == 'A' {
			replacement = "B"
		}
		corrupted := token[:i] + replacement + token[i+1:]
		if _, err := svc.Verify(corrupted); err != ErrInvalidToken {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.Verify("not-a-token"); err != ErrInvalidToken {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Verify(s); err != ErrInvalidToken {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("other hmac algorithm", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, err := other.SignedString([]byte("secret"))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Verify(s); err != ErrInvalidToken {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		noSub, err := svc.Issue("", time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Verify(noSub); err != ErrInvalidToken {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	if strings.Count(token, ".") != 2 {
		t.Errorf("expected compact serialization, got %q", token)
	}
}

func TestNewTokenService_RejectsBadConfig(t *testing.T) {
	if _, err := NewTokenService(config.JWTConfig{Secret: "s", Algorithm: "RS256", AccessTokenExpireMinutes: 1}); err == nil {
		t.Error("RS256 should be rejected")
	}
	if _, err := NewTokenService(config.JWTConfig{Secret: "", Algorithm: "HS256", AccessTokenExpireMinutes: 1}); err == nil {
		t.Error("empty secret should be rejected")
	}
}
