package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/parent"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/dbtest"
	"github.com/benevole/benevole/internal/db/models"
)

type fixture struct {
	db         *gorm.DB
	readUser   models.Permission
	updateUser models.Permission
	userRole   models.Role
	adminRole  models.Role
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := dbtest.Open(t)

	users, err := parent.Create(db, "users")
	require.NoError(t, err)

	readUser, err := permission.Create(db, "read user", users.ID)
	require.NoError(t, err)
	updateUser, err := permission.Create(db, "update user", users.ID)
	require.NoError(t, err)

	userRole, err := role.Create(db, "user", []uint{readUser.ID})
	require.NoError(t, err)
	adminRole, err := role.Create(db, "admin", []uint{readUser.ID, updateUser.ID})
	require.NoError(t, err)

	return fixture{db: db, readUser: *readUser, updateUser: *updateUser, userRole: *userRole, adminRole: *adminRole}
}

func TestCreate(t *testing.T) {
	f := setup(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		user          models.User
		expectedError error
	}{
		{
			name:          "nil database",
			user:          models.User{Email: "a@benevole.org"},
			expectedError: controller.ErrDBNil,
		},
		{
			name:          "empty email",
			dbParam:       f.db,
			user:          models.User{Email: "  "},
			expectedError: ErrEmailEmpty,
		},
		{
			name:          "unknown role",
			dbParam:       f.db,
			user:          models.User{Email: "a@benevole.org", Roles: []models.Role{{ID: 999}}},
			expectedError: role.ErrRoleNotFound,
		},
		{
			name:          "unknown permission",
			dbParam:       f.db,
			user:          models.User{Email: "a@benevole.org", Permissions: []models.Permission{{ID: 999}}},
			expectedError: permission.ErrPermissionNotFound,
		},
		{
			name:    "successful create",
			dbParam: f.db,
			user: models.User{
				Email:       "A@Benevole.org ",
				Password:    "hash",
				Enabled:     true,
				Roles:       []models.Role{f.userRole, f.userRole},
				Permissions: []models.Permission{f.updateUser},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user

			created, err := Create(tc.dbParam, &u)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, created.ID)
			assert.Equal(t, "a@benevole.org", created.Email)
			require.Len(t, created.Roles, 1)
			assert.Equal(t, "user", created.Roles[0].Name)
			require.Len(t, created.Roles[0].Permissions, 1, "role permissions are preloaded")
			require.Len(t, created.Permissions, 1)
			assert.Equal(t, "update user", created.Permissions[0].Name)
		})
	}

	_, err := Create(f.db, &models.User{Email: "a@benevole.org"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)

	n, err := Count(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "failed creates leave nothing behind")
}

func TestGetByEmailIgnoresCase(t *testing.T) {
	f := setup(t)

	created, err := Create(f.db, &models.User{Email: "volunteer@benevole.org"})
	require.NoError(t, err)

	got, err := GetByEmail(f.db, "Volunteer@BENEVOLE.org")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = GetByEmail(f.db, "nobody@benevole.org")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, err, controller.ErrNotFound)

	_, err = Get(f.db, uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePersists(t *testing.T) {
	f := setup(t)

	created, err := Create(f.db, &models.User{Email: "u@benevole.org", Username: "old", Enabled: true})
	require.NoError(t, err)

	name := "new"
	city := "Lyon"
	disabled := false

	updated, err := Update(f.db, created.ID, Profile{Username: &name, City: &city, Enabled: &disabled})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Username)

	stored, err := Get(f.db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Username)
	assert.Equal(t, "Lyon", stored.City)
	assert.False(t, stored.Enabled)
	assert.Equal(t, "u@benevole.org", stored.Email, "untouched fields stay")

	_, err = Update(f.db, uuid.New(), Profile{Username: &name})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSaveReplacesGrants(t *testing.T) {
	f := setup(t)

	u, err := Create(f.db, &models.User{Email: "u@benevole.org", Roles: []models.Role{f.userRole}})
	require.NoError(t, err)

	u.Roles = []models.Role{f.adminRole}
	u.Permissions = []models.Permission{f.readUser}
	require.NoError(t, Save(f.db, u))

	stored, err := Get(f.db, u.ID)
	require.NoError(t, err)
	require.Len(t, stored.Roles, 1)
	assert.Equal(t, "admin", stored.Roles[0].Name)
	require.Len(t, stored.Permissions, 1)

	adminStored, err := role.Get(f.db, f.adminRole.ID)
	require.NoError(t, err)
	assert.Len(t, adminStored.Permissions, 2, "linking a role never changes its permissions")

	stored.Roles = nil
	stored.Permissions = nil
	require.NoError(t, Save(f.db, stored))

	assert.Zero(t, dbtest.Count(t, f.db, &models.UserRole{}, "user_id = ?", u.ID))
	assert.Zero(t, dbtest.Count(t, f.db, &models.UserPermission{}, "user_id = ?", u.ID))

	require.ErrorIs(t, Save(f.db, &models.User{ID: uuid.New()}), ErrUserNotFound)
}

func TestListByRole(t *testing.T) {
	f := setup(t)

	_, err := Create(f.db, &models.User{Email: "b@benevole.org", Roles: []models.Role{f.adminRole}})
	require.NoError(t, err)
	_, err = Create(f.db, &models.User{Email: "a@benevole.org", Roles: []models.Role{f.adminRole, f.userRole}})
	require.NoError(t, err)
	_, err = Create(f.db, &models.User{Email: "c@benevole.org", Roles: []models.Role{f.userRole}})
	require.NoError(t, err)

	admins, err := ListByRole(f.db, f.adminRole.ID)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "a@benevole.org", admins[0].Email)
	assert.Equal(t, "b@benevole.org", admins[1].Email)

	res, err := List(f.db, controller.Page{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "a@benevole.org", res.Items[0].Email)
}

func TestDelete(t *testing.T) {
	f := setup(t)

	u, err := Create(f.db, &models.User{
		Email:       "u@benevole.org",
		Roles:       []models.Role{f.userRole},
		Permissions: []models.Permission{f.updateUser},
	})
	require.NoError(t, err)

	require.NoError(t, Delete(f.db, u.ID))

	assert.Zero(t, dbtest.Count(t, f.db, &models.UserRole{}, ""))
	assert.Zero(t, dbtest.Count(t, f.db, &models.UserPermission{}, ""))
	assert.Equal(t, int64(2), dbtest.Count(t, f.db, &models.Role{}, ""), "roles survive")

	require.ErrorIs(t, Delete(f.db, u.ID), ErrUserNotFound)
}

func TestSetPassword(t *testing.T) {
	f := setup(t)

	u, err := Create(f.db, &models.User{Email: "pw@benevole.org", Password: "old"})
	require.NoError(t, err)

	require.NoError(t, SetPassword(f.db, u.ID, "new"))

	got, err := Get(f.db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Password)

	assert.ErrorIs(t, SetPassword(f.db, uuid.New(), "x"), controller.ErrNotFound)
	assert.ErrorIs(t, SetPassword(nil, u.ID, "x"), controller.ErrDBNil)
}
