package parent_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/dbtest"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/web/handler"
	"github.com/benevole/benevole/internal/web/handler/admin/parent"
	"github.com/benevole/benevole/internal/web/webtest"
)

func TestList(t *testing.T) {
	env := webtest.New(t, nil)

	res, body := env.Do(t, http.MethodGet, parent.Path+"?size=100", env.LoginAs(t, auth.RoleSuperAdmin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	page := webtest.Decode[controller.Result[models.PermissionParent]](t, body)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, auth.ParentCategories, page.Items[0].Name)

	res, _ = env.Do(t, http.MethodGet, parent.Path, env.LoginAs(t, auth.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestCRUD(t *testing.T) {
	env := webtest.New(t, nil)
	token := env.LoginAs(t, auth.RoleSuperAdmin)

	res, body := env.Do(t, http.MethodPost, parent.Path, token, parent.Request{Name: "events"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	created := webtest.Decode[models.PermissionParent](t, body)
	path := fmt.Sprintf("%s/%d", parent.Path, created.ID)

	res, body = env.Do(t, http.MethodPost, parent.Path, token, parent.Request{Name: strings.Repeat("x", 31)})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, webtest.Decode[handler.ErrorResponse](t, body).ErrorDetails, "name : max=30")

	res, _ = env.Do(t, http.MethodPost, parent.Path, token, parent.Request{Name: "events"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, body = env.Do(t, http.MethodPut, path, token, parent.Request{Name: "festivals"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "festivals", webtest.Decode[models.PermissionParent](t, body).Name)

	res, _ = env.Do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = env.Do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteRemovesPermissions(t *testing.T) {
	env := webtest.New(t, nil)
	token := env.LoginAs(t, auth.RoleSuperAdmin)

	var teams models.PermissionParent
	require.NoError(t, env.DB.Where("name = ?", auth.ParentTeams).First(&teams).Error)

	res, _ := env.Do(t, http.MethodDelete, fmt.Sprintf("%s/%d", parent.Path, teams.ID), token, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	assert.Zero(t, dbtest.Count(t, env.DB, &models.Permission{}, "parent_id = ?", teams.ID))

	p, err := env.Auth.VerifyToken(env.LoginAs(t, auth.RoleAdmin))
	require.NoError(t, err)
	assert.False(t, p.Authorities.HasPermission(auth.PermReadTeams))
}
