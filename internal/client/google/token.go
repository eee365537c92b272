package google

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	ScopeAnalyticsReadonly = "https://www.googleapis.com/auth/analytics.readonly"
	ScopeSpreadsheets      = "https://www.googleapis.com/auth/spreadsheets"

	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour
	tokenTimeout       = 15 * time.Second
)

type jwtHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
	Kid string `json:"kid"`
}

type jwtClaims struct {
	Iss   string `json:"iss"`
	Sub   string `json:"sub"`
	Aud   string `json:"aud"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
	Scope string `json:"scope"`
}

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	Assertion string `json:"assertion"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenIssuer собирает RS256 JWT assertion вручную и меняет её на bearer
// токен. Токен не кэшируется: каждый вызов подписывает и обменивает заново.
type TokenIssuer struct {
	logger *zap.Logger
	store  *CredentialStore
	scope  string
	http   *http.Client

	endpoint string           // переопределяется в тестах, по умолчанию token_uri кредов
	now      func() time.Time // тоже для тестов
}

func NewTokenIssuer(logger *zap.Logger, store *CredentialStore, scope string) *TokenIssuer {
	if scope == "" {
		scope = ScopeAnalyticsReadonly
	}
	return &TokenIssuer{
		logger: logger,
		store:  store,
		scope:  scope,
		http:   &http.Client{Timeout: tokenTimeout},
		now:    time.Now,
	}
}

// AccessToken выпускает свежий bearer токен.
func (i *TokenIssuer) AccessToken(ctx context.Context) (string, error) {
	tok, err := i.issue(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Token реализует oauth2.TokenSource, чтобы issuer можно было отдать
// клиентам Google API через option.WithTokenSource.
func (i *TokenIssuer) Token() (*oauth2.Token, error) {
	return i.issue(context.Background())
}

var _ oauth2.TokenSource = (*TokenIssuer)(nil)

func (i *TokenIssuer) issue(ctx context.Context) (*oauth2.Token, error) {
	cred, err := i.store.Load()
	if err != nil {
		return nil, newError(KindTokenIssuance, 0, "failed to issue access token", err)
	}

	now := i.now()
	assertion, err := buildAssertion(cred, i.scope, now)
	if err != nil {
		i.logger.Error("failed to build jwt assertion", zap.Error(err))
		return nil, newError(KindTokenIssuance, 0, "failed to issue access token", err)
	}

	endpoint := i.endpoint
	if endpoint == "" {
		endpoint = cred.TokenURI
	}

	body, _ := json.Marshal(tokenRequest{
		GrantType: jwtBearerGrantType,
		Assertion: assertion,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindTokenIssuance, 0, "failed to issue access token", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.http.Do(req)
	if err != nil {
		i.logger.Error("token endpoint request failed", zap.Error(err))
		return nil, newError(KindTokenIssuance, 0, "failed to issue access token", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		i.logger.Error("token endpoint returned bad status",
			zap.String("status", resp.Status),
			zap.ByteString("response", respBody))
		return nil, newError(KindTokenIssuance, resp.StatusCode, "failed to issue access token",
			fmt.Errorf("bad status: %s", resp.Status))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		i.logger.Error("failed to decode token response", zap.Error(err))
		return nil, newError(KindTokenIssuance, 0, "failed to issue access token", err)
	}

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

func buildAssertion(cred Credential, scope string, now time.Time) (string, error) {
	key, err := parseRSAPrivateKey(cred.PrivateKey)
	if err != nil {
		return "", err
	}

	headerJSON, err := json.Marshal(jwtHeader{Alg: "RS256", Typ: "JWT", Kid: cred.PrivateKeyID})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(jwtClaims{
		Iss:   cred.ClientEmail,
		Sub:   cred.ClientEmail,
		Aud:   cred.TokenURI,
		Iat:   now.Unix(),
		Exp:   now.Add(assertionLifetime).Unix(),
		Scope: scope,
	})
	if err != nil {
		return "", err
	}

	signingInput := base64URL(headerJSON) + "." + base64URL(claimsJSON)

	digest := sha256.Sum256([]byte(signingInput))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}

	return signingInput + "." + base64URL(signature), nil
}

// base64URL — стандартный base64 с заменой алфавита (+ → -, / → _)
// и без хвостовых =. Замена должна совпадать бит-в-бит с тем, что ждёт
// верификатор JWT.
func base64URL(b []byte) string {
	s := base64.StdEncoding.EncodeToString(b)
	s = strings.ReplaceAll(s, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")
	return strings.TrimRight(s, "=")
}
