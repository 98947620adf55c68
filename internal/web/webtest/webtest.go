// Package webtest builds a seeded web service on an in-memory database for handler tests.
package webtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/dbtest"
	"github.com/benevole/benevole/internal/db/seed"
	"github.com/benevole/benevole/internal/directory"
	"github.com/benevole/benevole/internal/token"
	"github.com/benevole/benevole/internal/web"
)

const (
	// Password of every seeded account.
	Password = "secret-password"
	// Domain of the seeded account emails.
	Domain = "example.org"
	// Secret signs the test tokens.
	Secret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

// Env is a running test service.
type Env struct {
	Cfg  *config.Config
	DB   *gorm.DB
	Auth *auth.Service
	Web  *web.Service
}

// Config returns the configuration used by New.
func Config() *config.Config {
	return &config.Config{
		Title: "benevole test",
		Application: config.Application{
			Name:    "Benevole",
			Version: "test",
		},
		Security: config.Security{
			SecretKey:      Secret,
			AccessTokenTTL: time.Hour,
			Issuer:         "benevole-test",
		},
		Webserver: config.Webserver{
			Port:           8080,
			URL:            "http://localhost:8080",
			ShutDownTime:   1,
			DisableRecover: true,
		},
	}
}

// New seeds the catalog, the default roles and one account per role and builds the web service.
// cfg may be nil for Config().
func New(t *testing.T, cfg *config.Config) *Env {
	t.Helper()

	if cfg == nil {
		cfg = Config()
	}

	db := dbtest.Open(t)
	require.NoError(t, seed.Catalog(db))
	require.NoError(t, seed.Accounts(db, Password, Domain))

	tokens, err := token.New(cfg.Security.SecretKey, cfg.Security.AccessTokenTTL, token.WithIssuer(cfg.Security.Issuer))
	require.NoError(t, err)

	svc := auth.NewService(directory.New(db), tokens)

	return &Env{
		Cfg:  cfg,
		DB:   db,
		Auth: svc,
		Web:  web.New(cfg, db, svc, nil),
	}
}

// Email returns the seeded account email of the role.
func Email(role string) string {
	return seed.AccountEmail(role, Domain)
}

// Login authenticates email with password and returns the access token.
func (e *Env) Login(t *testing.T, email, password string) string {
	t.Helper()

	res, body := e.Do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	var out auth.Authentication
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)

	return out.Token
}

// LoginAs logs in the seeded account of role.
func (e *Env) LoginAs(t *testing.T, role string) string {
	t.Helper()

	return e.Login(t, Email(role), Password)
}

// Do sends a request with an optional bearer token and JSON body and returns response and body.
func (e *Env) Do(t *testing.T, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, ok := body.([]byte)
		if !ok {
			var err error
			raw, err = json.Marshal(body)
			require.NoError(t, err)
		}

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := e.Web.App.Test(req, -1)
	require.NoError(t, err)

	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())

	return res, out
}

// Decode unmarshals body into a new T.
func Decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))

	return out
}
