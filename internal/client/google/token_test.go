package google

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokenServer(t *testing.T, capture *tokenRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "test-token",
			ExpiresIn:   3600,
			TokenType:   "Bearer",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAccessTokenBuildsVerifiableAssertion(t *testing.T) {
	key, cred := testCredential(t)

	var captured tokenRequest
	srv := newTokenServer(t, &captured)

	store := NewInlineCredentialStore(zap.NewNop(), cred)
	issuer := NewTokenIssuer(zap.NewNop(), store, "")
	issuer.endpoint = srv.URL

	issued := time.Now().Add(-time.Minute).Truncate(time.Second)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)

	assert.Equal(t, jwtBearerGrantType, captured.GrantType)

	parts := strings.Split(captured.Assertion, ".")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotContains(t, p, "+")
		assert.NotContains(t, p, "/")
		assert.NotContains(t, p, "=")
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header jwtHeader
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, "RS256", header.Alg)
	assert.Equal(t, "JWT", header.Typ)
	assert.Equal(t, "key-1", header.Kid)

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims jwtClaims
	require.NoError(t, json.Unmarshal(claimsJSON, &claims))
	assert.Equal(t, cred.ClientEmail, claims.Iss)
	assert.Equal(t, cred.ClientEmail, claims.Sub)
	assert.Equal(t, "https://oauth2.googleapis.com/token", claims.Aud)
	assert.Equal(t, issued.Unix(), claims.Iat)
	assert.Equal(t, issued.Unix()+3600, claims.Exp)
	assert.Equal(t, ScopeAnalyticsReadonly, claims.Scope)

	// подпись должна проходить у стороннего верификатора
	parsed, err := jwt.Parse(captured.Assertion, func(tk *jwt.Token) (interface{}, error) {
		return key.Public(), nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestAccessTokenFreshPerCall(t *testing.T) {
	_, cred := testCredential(t)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	}))
	t.Cleanup(srv.Close)

	store := NewInlineCredentialStore(zap.NewNop(), cred)
	issuer := NewTokenIssuer(zap.NewNop(), store, "")
	issuer.endpoint = srv.URL

	_, err := issuer.AccessToken(context.Background())
	require.NoError(t, err)
	_, err = issuer.AccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestAccessTokenBadStatus(t *testing.T) {
	_, cred := testCredential(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	store := NewInlineCredentialStore(zap.NewNop(), cred)
	issuer := NewTokenIssuer(zap.NewNop(), store, "")
	issuer.endpoint = srv.URL

	token, err := issuer.AccessToken(context.Background())
	require.Error(t, err)
	assert.Empty(t, token)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindTokenIssuance, gerr.Kind)
	assert.Equal(t, http.StatusUnauthorized, gerr.Status)
	assert.Equal(t, "failed to issue access token", gerr.Error())
}

func TestAccessTokenWrapsCredentialFailure(t *testing.T) {
	store := NewFileCredentialStore(zap.NewNop(), "definitely-missing.json")
	issuer := NewTokenIssuer(zap.NewNop(), store, "")

	_, err := issuer.AccessToken(context.Background())
	require.Error(t, err)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindTokenIssuance, gerr.Kind)

	// исходная ошибка кредов остаётся в цепочке
	var cause *Error
	require.True(t, errors.As(gerr.Unwrap(), &cause))
	assert.Equal(t, KindCredentialLoad, cause.Kind)
}

func TestTokenSource(t *testing.T) {
	_, cred := testCredential(t)
	srv := newTokenServer(t, nil)

	store := NewInlineCredentialStore(zap.NewNop(), cred)
	issuer := NewTokenIssuer(zap.NewNop(), store, ScopeSpreadsheets)
	issuer.endpoint = srv.URL

	tok, err := issuer.Token()
	require.NoError(t, err)
	assert.Equal(t, "test-token", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Expiry.After(time.Now()))
}

func TestBase64URLMatchesRawEncoding(t *testing.T) {
	for size := 0; size <= 65; size++ {
		buf := make([]byte, size)
		_, err := rand.Read(buf)
		require.NoError(t, err)

		encoded := base64URL(buf)
		assert.NotContains(t, encoded, "+")
		assert.NotContains(t, encoded, "/")
		assert.NotContains(t, encoded, "=")

		decoded, err := base64.RawURLEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, buf, decoded)
	}
}
