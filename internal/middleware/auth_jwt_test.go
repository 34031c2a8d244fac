package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVerifyJWTRoundTrip(t *testing.T) {
	token, err := SignJWT("secret", TokenClaims{Sub: "u1", Exp: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "u1" {
		t.Fatalf("sub = %q", claims.Sub)
	}
}

func TestVerifyJWTRejectsBadInput(t *testing.T) {
	valid, _ := SignJWT("secret", TokenClaims{Sub: "u1", Exp: time.Now().Add(time.Hour).Unix()})
	expired, _ := SignJWT("secret", TokenClaims{Sub: "u1", Exp: time.Now().Add(-time.Hour).Unix()})
	noSub, _ := SignJWT("secret", TokenClaims{Exp: time.Now().Add(time.Hour).Unix()})

	cases := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"malformed", "secret", "a.b"},
		{"expired", "secret", expired},
		{"missing subject", "secret", noSub},
	}
	for _, tc := range cases {
		if _, err := VerifyJWT(tc.secret, tc.token); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestAuthJWTInjectsUserID(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "u1", Exp: time.Now().Add(time.Hour).Unix()})

	var seen string
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || seen != "u1" {
		t.Fatalf("code = %d, user = %q", rec.Code, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: code = %d", rec.Code)
	}
}
