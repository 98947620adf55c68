package logout_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/web/handler/logout"
	"github.com/benevole/benevole/internal/web/webtest"
)

func TestLogout(t *testing.T) {
	env := webtest.New(t, nil)

	res, _ := env.Do(t, http.MethodPost, logout.Path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	token := env.LoginAs(t, auth.RoleUser)

	res, _ = env.Do(t, http.MethodPost, logout.Path, token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// no revocation, the token stays valid until it expires
	res, _ = env.Do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
