package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benevole/benevole/internal/db/models"
)

func TestEqualByID(t *testing.T) {
	assert.False(t, models.Permission{}.Equal(models.Permission{}), "unsaved permissions are never equal")
	assert.False(t, models.Permission{ID: 1, Name: "a"}.Equal(models.Permission{ID: 2, Name: "a"}))
	assert.True(t, models.Permission{ID: 1, Name: "a"}.Equal(models.Permission{ID: 1, Name: "renamed"}))

	assert.False(t, models.Role{}.Equal(models.Role{}))
	assert.True(t, models.Role{ID: 3}.Equal(models.Role{ID: 3, Name: "admin"}))

	assert.False(t, models.PermissionParent{Name: "x"}.Equal(models.PermissionParent{Name: "x"}))

	id := uuid.New()
	assert.False(t, models.User{}.Equal(models.User{}))
	assert.True(t, models.User{ID: id}.Equal(models.User{ID: id, Email: "a@b.c"}))
}

func TestUniquePermissions(t *testing.T) {
	in := []models.Permission{
		{ID: 1, Name: "read users"},
		{ID: 2, Name: "read user"},
		{ID: 1, Name: "read users"},
		{Name: "unsaved"},
		{Name: "unsaved"},
	}

	out := models.UniquePermissions(in)
	require.Len(t, out, 4)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(2), out[1].ID)
}

func TestUniqueRoles(t *testing.T) {
	out := models.UniqueRoles([]models.Role{{ID: 1}, {ID: 1}, {ID: 2}})
	assert.Len(t, out, 2)
}

func TestBeforeCreateAssignsID(t *testing.T) {
	var u models.User
	require.NoError(t, u.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, u.ID)

	fixed := uuid.New()
	u = models.User{ID: fixed}
	require.NoError(t, u.BeforeCreate(nil))
	assert.Equal(t, fixed, u.ID)
}

func TestPassword(t *testing.T) {
	hash, err := models.HashPassword("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", hash)

	u := models.User{Password: hash}
	assert.True(t, u.VerifyPassword("12345678"))
	assert.False(t, u.VerifyPassword("87654321"))

	broken := models.User{Password: "not-a-hash"}
	assert.False(t, broken.VerifyPassword("12345678"))
}

func TestHasRoleAndPermission(t *testing.T) {
	r := models.Role{ID: 1, Permissions: []models.Permission{{ID: 7}}}
	assert.True(t, r.HasPermission(7))
	assert.False(t, r.HasPermission(8))

	u := models.User{Roles: []models.Role{r}}
	assert.True(t, u.HasRole(1))
	assert.False(t, u.HasRole(2))
}
