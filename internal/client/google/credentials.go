package google

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

const DefaultCredentialsFile = "service_account.json"

// Фиксированные поля сервис-аккаунта Google. Всегда перекрывают значения
// из файла, даже если там записано что-то своё.
const (
	credentialType      = "service_account"
	authURI             = "https://accounts.google.com/o/oauth2/auth"
	tokenURI            = "https://oauth2.googleapis.com/token"
	authProviderCertURL = "https://www.googleapis.com/oauth2/v1/certs"
	universeDomain      = "googleapis.com"
)

type Credential struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain"`
}

type credentialSource interface {
	read() (Credential, error)
}

type fileSource struct{ path string }

func (s fileSource) read() (Credential, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return Credential{}, fmt.Errorf("read credential file %s: %w", s.path, err)
	}
	var cred Credential
	if err := json.Unmarshal(b, &cred); err != nil {
		return Credential{}, fmt.Errorf("parse credential file %s: %w", s.path, err)
	}
	return cred, nil
}

type inlineSource struct{ cred Credential }

func (s inlineSource) read() (Credential, error) { return s.cred, nil }

// CredentialStore отдаёт креды сервис-аккаунта. Источник (файл или объект
// в памяти) фиксируется при создании; читается лениво, один раз на инстанс.
type CredentialStore struct {
	logger *zap.Logger
	source credentialSource

	once sync.Once
	cred Credential
	err  error
}

func NewFileCredentialStore(logger *zap.Logger, path string) *CredentialStore {
	if path == "" {
		path = DefaultCredentialsFile
	}
	return &CredentialStore{logger: logger, source: fileSource{path: path}}
}

// NewInlineCredentialStore использует переданный объект, файл не читается.
func NewInlineCredentialStore(logger *zap.Logger, cred Credential) *CredentialStore {
	return &CredentialStore{logger: logger, source: inlineSource{cred: cred}}
}

func (s *CredentialStore) Load() (Credential, error) {
	s.once.Do(func() {
		s.cred, s.err = s.load()
	})
	return s.cred, s.err
}

func (s *CredentialStore) load() (Credential, error) {
	cred, err := s.source.read()
	if err != nil {
		s.logger.Error("failed to read credential source", zap.Error(err))
		return Credential{}, newError(KindCredentialLoad, 0, "failed to load credential", err)
	}

	// константы всегда выигрывают
	cred.Type = credentialType
	cred.AuthURI = authURI
	cred.TokenURI = tokenURI
	cred.AuthProviderX509CertURL = authProviderCertURL
	cred.UniverseDomain = universeDomain

	if cred.ClientEmail == "" {
		err := errors.New("client_email is empty")
		s.logger.Error("invalid credential", zap.Error(err))
		return Credential{}, newError(KindCredentialLoad, 0, "failed to load credential", err)
	}
	if _, err := parseRSAPrivateKey(cred.PrivateKey); err != nil {
		s.logger.Error("invalid credential private key", zap.Error(err))
		return Credential{}, newError(KindCredentialLoad, 0, "failed to load credential", err)
	}

	return cred, nil
}

// parseRSAPrivateKey разбирает PEM ключ сервис-аккаунта, PKCS#8 или PKCS#1.
func parseRSAPrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("private_key is not valid PEM")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("private_key is not an RSA key")
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private_key: %w", err)
	}
	return rsaKey, nil
}
