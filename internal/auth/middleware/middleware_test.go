package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims *Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func protected(a *AuthService) http.Handler {
	return JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(SubjectFromContext(r.Context())))
	}))
}

// TestJWTMiddleware verifies valid tokens pass and carry their subject.
func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("secret")
	tok := sign(t, "secret", jwt.SigningMethodHS256, &Claims{
		Sub:  "u1",
		Role: "student",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	protected(a).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "u1" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

// TestJWTMiddlewareRejects verifies missing, forged and expired tokens are refused.
func TestJWTMiddlewareRejects(t *testing.T) {
	a := NewAuthService("secret")
	expired := sign(t, "secret", jwt.SigningMethodHS256, &Claims{
		Sub: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	forged := sign(t, "other", jwt.SigningMethodHS256, &Claims{Sub: "u1"})
	wrongAlg := sign(t, "secret", jwt.SigningMethodHS512, &Claims{Sub: "u1"})

	for name, header := range map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"expired":   "Bearer " + expired,
		"forged":    "Bearer " + forged,
		"wrong alg": "Bearer " + wrongAlg,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protected(a).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
