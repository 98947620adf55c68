package user_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/controller/role"
	userctl "github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/web/handler/admin/user"
	"github.com/benevole/benevole/internal/web/webtest"
)

func account(t *testing.T, env *webtest.Env, roleName string) *models.User {
	t.Helper()

	u, err := userctl.GetByEmail(env.DB, webtest.Email(roleName))
	require.NoError(t, err)

	return u
}

func pathOf(u *models.User) string {
	return fmt.Sprintf("%s/%s", user.Path, u.ID)
}

func TestList(t *testing.T) {
	env := webtest.New(t, nil)

	res, body := env.Do(t, http.MethodGet, user.Path, env.LoginAs(t, auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Equal(t, int64(3), webtest.Decode[controller.Result[models.User]](t, body).Total)

	// user holds read user but not read users
	res, _ = env.Do(t, http.MethodGet, user.Path, env.LoginAs(t, auth.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.Do(t, http.MethodGet, user.Path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestGetIsScopedToOwnAccount(t *testing.T) {
	env := webtest.New(t, nil)
	token := env.LoginAs(t, auth.RoleUser)

	res, body := env.Do(t, http.MethodGet, pathOf(account(t, env, auth.RoleUser)), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.NotContains(t, string(body), "password\"")

	res, _ = env.Do(t, http.MethodGet, pathOf(account(t, env, auth.RoleAdmin)), token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.Do(t, http.MethodGet, pathOf(account(t, env, auth.RoleUser)), env.LoginAs(t, auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestCreate(t *testing.T) {
	env := webtest.New(t, nil)
	token := env.LoginAs(t, auth.RoleAdmin)

	res, body := env.Do(t, http.MethodPost, user.Path, token, user.Request{
		Username: "lea",
		Email:    "lea@example.org",
		Password: "lea-password",
		City:     "Nantes",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	created := webtest.Decode[models.User](t, body)
	assert.True(t, created.Enabled)
	require.Len(t, created.Roles, 1)
	assert.Equal(t, auth.RoleUser, created.Roles[0].Name)

	env.Login(t, "lea@example.org", "lea-password")

	res, _ = env.Do(t, http.MethodPost, user.Path, env.LoginAs(t, auth.RoleUser), user.Request{
		Username: "tom",
		Email:    "tom@example.org",
		Password: "tom-password",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestCreateWithRoles(t *testing.T) {
	env := webtest.New(t, nil)

	admin, err := role.GetByName(env.DB, auth.RoleAdmin)
	require.NoError(t, err)

	res, body := env.Do(t, http.MethodPost, user.Path, env.LoginAs(t, auth.RoleAdmin), user.Request{
		Username: "chef",
		Email:    "chef@example.org",
		Password: "chef-password",
		Roles:    []uint{admin.ID},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	created := webtest.Decode[models.User](t, body)
	require.Len(t, created.Roles, 1)
	assert.Equal(t, auth.RoleAdmin, created.Roles[0].Name)

	res, _ = env.Do(t, http.MethodPost, user.Path, env.LoginAs(t, auth.RoleAdmin), user.Request{
		Username: "ghost",
		Email:    "ghost@example.org",
		Password: "ghost-password",
		Roles:    []uint{9999},
	})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpdateOwnProfile(t *testing.T) {
	env := webtest.New(t, nil)
	me := account(t, env, auth.RoleUser)
	token := env.LoginAs(t, auth.RoleUser)

	res, body := env.Do(t, http.MethodPut, pathOf(me), token, user.Request{
		Username:       "volunteer",
		Email:          me.Email,
		Phone:          "0102030405",
		DrivingLicence: true,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	stored, err := userctl.Get(env.DB, me.ID)
	require.NoError(t, err)
	assert.Equal(t, "volunteer", stored.Username)
	assert.Equal(t, "0102030405", stored.Phone)
	assert.True(t, stored.DrivingLicence)
	assert.True(t, stored.Enabled)

	disabled := false
	res, _ = env.Do(t, http.MethodPut, pathOf(me), token, user.Request{
		Username: "volunteer",
		Email:    me.Email,
		Enabled:  &disabled,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	superAdmin, err := role.GetByName(env.DB, auth.RoleSuperAdmin)
	require.NoError(t, err)

	res, _ = env.Do(t, http.MethodPut, pathOf(me), token, user.Request{
		Username: "volunteer",
		Email:    me.Email,
		Roles:    []uint{superAdmin.ID},
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.Do(t, http.MethodPut, pathOf(me), token, user.Request{
		Username: "volunteer",
		Email:    me.Email,
		Password: "taken-over",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.NotEmpty(t, env.Login(t, me.Email, webtest.Password), "password is left unchanged")

	res, _ = env.Do(t, http.MethodPut, pathOf(account(t, env, auth.RoleAdmin)), token, user.Request{
		Username: "hijack",
		Email:    webtest.Email(auth.RoleAdmin),
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestUpdateRolesAndPassword(t *testing.T) {
	env := webtest.New(t, nil)
	target := account(t, env, auth.RoleUser)

	admin, err := role.GetByName(env.DB, auth.RoleAdmin)
	require.NoError(t, err)

	res, body := env.Do(t, http.MethodPut, pathOf(target), env.LoginAs(t, auth.RoleAdmin), user.Request{
		Username: target.Username,
		Email:    target.Email,
		Password: "changed-password",
		Roles:    []uint{admin.ID},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	updated := webtest.Decode[models.User](t, body)
	require.Len(t, updated.Roles, 1)
	assert.Equal(t, auth.RoleAdmin, updated.Roles[0].Name)

	p, err := env.Auth.VerifyToken(env.Login(t, target.Email, "changed-password"))
	require.NoError(t, err)
	assert.True(t, p.Authorities.HasRole(auth.RoleAdmin))
	assert.False(t, p.Authorities.HasRole(auth.RoleUser))
}

func TestUpdateIsAtomic(t *testing.T) {
	env := webtest.New(t, nil)
	target := account(t, env, auth.RoleUser)

	token := env.LoginAs(t, auth.RoleSuperAdmin)

	admin, err := role.GetByName(env.DB, auth.RoleAdmin)
	require.NoError(t, err)

	// fail the grant step that follows the profile update
	require.NoError(t, env.DB.Callback().Update().Before("gorm:update").Register("test:fail_grants", func(tx *gorm.DB) {
		if dest, ok := tx.Statement.Dest.(map[string]any); ok && len(dest) == 1 {
			if _, ok = dest["enabled"]; ok {
				tx.AddError(errors.New("grant step failed"))
			}
		}
	}))

	res, _ := env.Do(t, http.MethodPut, pathOf(target), token, user.Request{
		Username:  target.Username,
		Email:     target.Email,
		FirstName: "Half",
		Roles:     []uint{admin.ID},
	})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	stored, err := userctl.Get(env.DB, target.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.FirstName, "profile change is rolled back")
	require.Len(t, stored.Roles, 1)
	assert.Equal(t, auth.RoleUser, stored.Roles[0].Name)
}

func TestDelete(t *testing.T) {
	env := webtest.New(t, nil)
	target := account(t, env, auth.RoleUser)

	res, _ := env.Do(t, http.MethodDelete, pathOf(target), env.LoginAs(t, auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.Do(t, http.MethodDelete, pathOf(target), env.LoginAs(t, auth.RoleSuperAdmin), nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	_, err := userctl.Get(env.DB, target.ID)
	require.ErrorIs(t, err, controller.ErrNotFound)
}

func TestAppendAndRemoveRole(t *testing.T) {
	env := webtest.New(t, nil)
	token := env.LoginAs(t, auth.RoleAdmin)
	target := account(t, env, auth.RoleUser)

	admin, err := role.GetByName(env.DB, auth.RoleAdmin)
	require.NoError(t, err)

	res, body := env.Do(t, http.MethodPost,
		fmt.Sprintf("%s/appendRole/%s/%d", user.Path, target.ID, admin.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Len(t, webtest.Decode[models.User](t, body).Roles, 2)

	// the token issued before the grant keeps its snapshot
	before := env.LoginAs(t, auth.RoleUser)

	res, body = env.Do(t, http.MethodPost,
		fmt.Sprintf("%s/removeRole/%s/%d", user.Path, target.ID, admin.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Len(t, webtest.Decode[models.User](t, body).Roles, 1)

	p, err := env.Auth.VerifyToken(before)
	require.NoError(t, err)
	assert.True(t, p.Authorities.HasRole(auth.RoleAdmin))

	p, err = env.Auth.VerifyToken(env.LoginAs(t, auth.RoleUser))
	require.NoError(t, err)
	assert.False(t, p.Authorities.HasRole(auth.RoleAdmin))
}

func TestDirectPermissionScenario(t *testing.T) {
	env := webtest.New(t, nil)
	target := account(t, env, auth.RoleUser)

	create, err := permission.GetByName(env.DB, auth.PermCreateDistribution)
	require.NoError(t, err)

	p, err := env.Auth.VerifyToken(env.LoginAs(t, auth.RoleUser))
	require.NoError(t, err)
	require.ErrorIs(t, env.Auth.Authorize(p, auth.HasPermission(auth.PermCreateDistribution)), auth.ErrAccessDenied)

	res, body := env.Do(t, http.MethodPost,
		fmt.Sprintf("%s/appendPermission/%s", user.Path, target.ID), env.LoginAs(t, auth.RoleAdmin), []uint{create.ID})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	// old token still denies, the next login allows
	require.ErrorIs(t, env.Auth.Authorize(p, auth.HasPermission(auth.PermCreateDistribution)), auth.ErrAccessDenied)

	p, err = env.Auth.VerifyToken(env.LoginAs(t, auth.RoleUser))
	require.NoError(t, err)
	require.NoError(t, env.Auth.Authorize(p, auth.HasPermission(auth.PermCreateDistribution)))

	res, _ = env.Do(t, http.MethodPost,
		fmt.Sprintf("%s/removePermission/%s", user.Path, target.ID), env.LoginAs(t, auth.RoleAdmin), []uint{create.ID})
	require.Equal(t, http.StatusOK, res.StatusCode)

	p, err = env.Auth.VerifyToken(env.LoginAs(t, auth.RoleUser))
	require.NoError(t, err)
	assert.False(t, p.Authorities.HasPermission(auth.PermCreateDistribution))
}
