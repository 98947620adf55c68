package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/dbtest"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/db/seed"
	"github.com/benevole/benevole/internal/directory"
	"github.com/benevole/benevole/internal/token"
)

const (
	secret   = "0123456789abcdef0123456789abcdef"
	password = "12345678"
)

type fixture struct {
	db  *gorm.DB
	svc *auth.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := dbtest.Open(t)
	require.NoError(t, seed.Catalog(db))

	tokens, err := token.New(secret, time.Hour, token.WithIssuer("benevole"))
	require.NoError(t, err)

	return fixture{db: db, svc: auth.NewService(directory.New(db), tokens)}
}

func (f fixture) register(t *testing.T, email string) *models.User {
	t.Helper()

	u, err := f.svc.Register(context.Background(), &models.User{Email: email, Username: email}, password)
	require.NoError(t, err)

	return u
}

func (f fixture) permissionID(t *testing.T, name string) uint {
	t.Helper()

	p, err := permission.GetByName(f.db, name)
	require.NoError(t, err)

	return p.ID
}

func (f fixture) roleID(t *testing.T, name string) uint {
	t.Helper()

	r, err := role.GetByName(f.db, name)
	require.NoError(t, err)

	return r.ID
}

func TestRegister(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u := f.register(t, "Volunteer@Benevole.org")
	assert.Equal(t, "volunteer@benevole.org", u.Email)
	assert.True(t, u.Enabled)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, auth.RoleUser, u.Roles[0].Name)
	assert.NotEqual(t, password, u.Password)

	_, err := f.svc.Register(ctx, &models.User{Email: "volunteer@benevole.org"}, password)
	assert.ErrorIs(t, err, auth.ErrEmailExists)
}

func TestAuthenticate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u := f.register(t, "a@benevole.org")

	disabled := f.register(t, "disabled@benevole.org")
	disabled.Enabled = false
	require.NoError(t, directory.New(f.db).SaveUser(ctx, disabled))

	testCases := []struct {
		name          string
		email         string
		password      string
		expectedError error
	}{
		{name: "valid", email: "a@benevole.org", password: password},
		{name: "email ignores case", email: "A@benevole.org", password: password},
		{name: "wrong password", email: "a@benevole.org", password: "wrong", expectedError: auth.ErrAuthenticationFailed},
		{name: "unknown email", email: "nobody@benevole.org", password: password, expectedError: auth.ErrAuthenticationFailed},
		{name: "disabled", email: "disabled@benevole.org", password: password, expectedError: auth.ErrAuthenticationFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.svc.Authenticate(ctx, tc.email, tc.password)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, res)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, u.ID.String(), res.PrincipalID)
			assert.Equal(t, "Bearer", res.TokenType)
			assert.Contains(t, res.Authorities, auth.RolePrefix+auth.RoleUser)
			assert.Contains(t, res.Authorities, auth.PermReadUser)
			assert.NotContains(t, res.Authorities, auth.PermDeleteUser)

			p, err := f.svc.VerifyToken(res.Token)
			require.NoError(t, err)
			assert.Equal(t, u.ID.String(), p.ID)
			assert.Equal(t, u.Email, p.Email)
			assert.Equal(t, res.Authorities, p.Authorities.Strings())
		})
	}
}

func TestVerifyTokenRejectsForeignToken(t *testing.T) {
	f := setup(t)

	other, err := token.New("ffffffffffffffffffffffffffffffff", time.Hour, token.WithIssuer("benevole"))
	require.NoError(t, err)

	signed, _, err := other.Issue("someone", "x@benevole.org", []string{auth.RoleSuperAdmin}, nil)
	require.NoError(t, err)

	p, err := f.svc.VerifyToken(signed)
	require.ErrorIs(t, err, token.ErrBadSignature)
	assert.Nil(t, p)
}

func TestAuthorize(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.register(t, "a@benevole.org")

	res, err := f.svc.Authenticate(ctx, "a@benevole.org", password)
	require.NoError(t, err)

	p, err := f.svc.VerifyToken(res.Token)
	require.NoError(t, err)

	assert.NoError(t, f.svc.Authorize(p, auth.HasRole(auth.RoleUser), auth.HasPermission(auth.PermReadUser)))
	assert.ErrorIs(t, f.svc.Authorize(p, auth.HasAnyRole(auth.RoleAdmin, auth.RoleSuperAdmin)), auth.ErrAccessDenied)
	assert.ErrorIs(t, f.svc.Authorize(p, auth.HasPermission(auth.PermReadUser, auth.PermDeleteUser)), auth.ErrAccessDenied)
	assert.ErrorIs(t, f.svc.Authorize(nil), auth.ErrNoPrincipal)
}

func TestResolveUser(t *testing.T) {
	f := setup(t)

	u := f.register(t, "a@benevole.org")

	set, err := f.svc.ResolveUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{auth.RoleUser}, set.Roles())
	assert.True(t, set.HasPermission(auth.PermSelectHoraire))

	_, err = f.svc.ResolveUser(context.Background(), models.User{}.ID)
	assert.ErrorIs(t, err, controller.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u := f.register(t, "a@benevole.org")

	err := f.svc.Local().ChangePassword(ctx, u.ID, "wrong", "newpassword")
	require.ErrorIs(t, err, auth.ErrInvalidOldPassword)

	require.NoError(t, f.svc.Local().ChangePassword(ctx, u.ID, password, "newpassword"))

	_, err = f.svc.Authenticate(ctx, "a@benevole.org", password)
	require.ErrorIs(t, err, auth.ErrAuthenticationFailed)

	_, err = f.svc.Authenticate(ctx, "a@benevole.org", "newpassword")
	require.NoError(t, err)
}

func TestPermissionNamedLikeRoleStaysPermission(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	known, err := permission.GetByName(f.db, auth.PermReadUser)
	require.NoError(t, err)

	// rows written before names were checked
	rogue := models.Permission{Name: auth.RolePrefix + auth.RoleSuperAdmin, ParentID: known.ParentID}
	require.NoError(t, f.db.Create(&rogue).Error)

	u := f.register(t, "rogue@benevole.org")
	_, err = f.svc.GrantPermissions(ctx, u.ID, []uint{rogue.ID})
	require.NoError(t, err)

	res, err := f.svc.Authenticate(ctx, "rogue@benevole.org", password)
	require.NoError(t, err)
	assert.NotContains(t, res.Authorities, auth.RolePrefix+auth.RoleSuperAdmin)

	p, err := f.svc.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.False(t, p.Authorities.HasRole(auth.RoleSuperAdmin))
	assert.Equal(t, []string{auth.RoleUser}, p.Authorities.Roles())
	require.ErrorIs(t, f.svc.Authorize(p, auth.HasRole(auth.RoleSuperAdmin)), auth.ErrAccessDenied)
}
