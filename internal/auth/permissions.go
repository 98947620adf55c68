package auth

// Role names of the default role hierarchy. Each role grants a strict superset
// of the permissions of the role before it.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super admin"
)

// Parent names group the permission catalog by business area.
const (
	ParentCategories        = "categories"
	ParentDistributions     = "distributions"
	ParentHoraires          = "horaires"
	ParentStores            = "stores"
	ParentNotifications     = "notifications"
	ParentPermissions       = "permissions"
	ParentParentPermissions = "parent permissions"
	ParentRecuperations     = "recuperations"
	ParentRules             = "rules"
	ParentTeams             = "teams"
	ParentUsers             = "users"
)

// Permission constants define the available permissions in the system.
// They are checked by route requirements and granted through roles or directly.
const (
	PermReadCategories = "read categories"
	PermReadCategory   = "read category"
	PermCreateCategory = "create category"
	PermUpdateCategory = "update category"
	PermDeleteCategory = "delete category"

	PermReadDistributions  = "read distributions"
	PermReadDistribution   = "read distribution"
	PermCreateDistribution = "create distribution"
	PermUpdateDistribution = "update distribution"
	PermDeleteDistribution = "delete distribution"

	PermReadHoraires    = "read horaires"
	PermReadHoraire     = "read horaire"
	PermCreateHoraire   = "create horaire"
	PermUpdateHoraire   = "update horaire"
	PermDeleteHoraire   = "delete horaire"
	PermSelectHoraire   = "select horaire"
	PermUnselectHoraire = "unselect horaire"

	PermReadStores  = "read stores"
	PermReadStore   = "read store"
	PermCreateStore = "create store"
	PermUpdateStore = "update store"
	PermDeleteStore = "delete store"

	PermReadNotifications  = "read notifications"
	PermReadNotification   = "read notification"
	PermCreateNotification = "create notification"
	PermDeleteNotification = "delete notification"

	PermReadPermissions        = "read permissions"
	PermReadPermission         = "read permission"
	PermCreatePermission       = "create permission"
	PermUpdatePermission       = "update permission"
	PermDeletePermission       = "delete permission"
	PermAddPermissionToUser    = "add permission to user"
	PermRemovePermissionToUser = "remove permission to user"
	PermAddUserPermission      = "add user permission"
	PermRemoveUserPermission   = "remove user permission"

	PermReadParentPermissions  = "read parent permissions"
	PermReadParentPermission   = "read parent permission"
	PermCreateParentPermission = "create parent permission"
	PermUpdateParentPermission = "update parent permission"
	PermDeleteParentPermission = "delete parent permission"

	PermReadRecuperations  = "read recuperations"
	PermReadRecuperation   = "read recuperation"
	PermCreateRecuperation = "create recuperation"
	PermUpdateRecuperation = "update recuperation"
	PermDeleteRecuperation = "delete recuperation"

	PermReadRules              = "read rules"
	PermReadRule               = "read rule"
	PermCreateRule             = "create rule"
	PermUpdateRule             = "update rule"
	PermDeleteRule             = "delete rule"
	PermAddUserRule            = "add user rule"
	PermRemoveUserRule         = "remove user rule"
	PermAddPermissionToRule    = "add permission to rule"
	PermRemovePermissionToRule = "remove permission to rule"

	PermReadTeams        = "read teams"
	PermReadTeam         = "read team"
	PermCreateTeam       = "create team"
	PermUpdateTeam       = "update team"
	PermDeleteTeam       = "delete team"
	PermAddTeamMember    = "add team member"
	PermRemoveTeamMember = "remove team member"

	PermReadUsers  = "read users"
	PermReadUser   = "read user"
	PermCreateUser = "create user"
	PermUpdateUser = "update user"
	PermDeleteUser = "delete user"
)

// CatalogEntry lists the permissions of one parent.
type CatalogEntry struct {
	Parent      string
	Permissions []string
}

// Catalog is the default permission catalog created by the bootstrap seed.
var Catalog = []CatalogEntry{ //nolint:gochecknoglobals
	{ParentCategories, []string{
		PermReadCategories, PermReadCategory, PermCreateCategory, PermUpdateCategory, PermDeleteCategory,
	}},
	{ParentDistributions, []string{
		PermReadDistributions, PermReadDistribution, PermCreateDistribution, PermUpdateDistribution,
		PermDeleteDistribution,
	}},
	{ParentHoraires, []string{
		PermReadHoraires, PermReadHoraire, PermCreateHoraire, PermUpdateHoraire, PermDeleteHoraire,
		PermSelectHoraire, PermUnselectHoraire,
	}},
	{ParentStores, []string{
		PermReadStores, PermReadStore, PermCreateStore, PermUpdateStore, PermDeleteStore,
	}},
	{ParentNotifications, []string{
		PermReadNotifications, PermReadNotification, PermCreateNotification, PermDeleteNotification,
	}},
	{ParentPermissions, []string{
		PermReadPermissions, PermReadPermission, PermCreatePermission, PermUpdatePermission,
		PermDeletePermission, PermAddPermissionToUser, PermRemovePermissionToUser,
		PermAddUserPermission, PermRemoveUserPermission,
	}},
	{ParentParentPermissions, []string{
		PermReadParentPermissions, PermReadParentPermission, PermCreateParentPermission,
		PermUpdateParentPermission, PermDeleteParentPermission,
	}},
	{ParentRecuperations, []string{
		PermReadRecuperations, PermReadRecuperation, PermCreateRecuperation, PermUpdateRecuperation,
		PermDeleteRecuperation,
	}},
	{ParentRules, []string{
		PermReadRules, PermReadRule, PermCreateRule, PermUpdateRule, PermDeleteRule,
		PermAddUserRule, PermRemoveUserRule, PermAddPermissionToRule, PermRemovePermissionToRule,
	}},
	{ParentTeams, []string{
		PermReadTeams, PermReadTeam, PermCreateTeam, PermUpdateTeam, PermDeleteTeam,
		PermAddTeamMember, PermRemoveTeamMember,
	}},
	{ParentUsers, []string{
		PermReadUsers, PermReadUser, PermCreateUser, PermUpdateUser, PermDeleteUser,
	}},
}

// userPermissions are granted to every volunteer.
var userPermissions = []string{ //nolint:gochecknoglobals
	PermReadDistributions, PermReadDistribution,
	PermReadHoraires, PermReadHoraire, PermSelectHoraire, PermUnselectHoraire,
	PermReadStores, PermReadStore,
	PermReadNotifications, PermReadNotification, PermCreateNotification, PermDeleteNotification,
	PermReadRecuperations, PermReadRecuperation,
	PermReadUser, PermUpdateUser,
}

// adminPermissions are added on top of userPermissions.
var adminPermissions = []string{ //nolint:gochecknoglobals
	PermReadCategories, PermReadCategory, PermCreateCategory, PermUpdateCategory,
	PermCreateDistribution, PermUpdateDistribution,
	PermCreateHoraire, PermUpdateHoraire,
	PermCreateStore, PermUpdateStore,
	PermAddUserPermission, PermRemoveUserPermission,
	PermCreateRecuperation, PermUpdateRecuperation,
	PermReadRules, PermAddUserRule, PermRemoveUserRule,
	PermReadTeams, PermReadTeam, PermCreateTeam, PermUpdateTeam, PermAddTeamMember, PermRemoveTeamMember,
	PermReadUsers, PermReadUser, PermCreateUser, PermUpdateUser,
}

// superAdminPermissions are added on top of adminPermissions.
var superAdminPermissions = []string{ //nolint:gochecknoglobals
	PermDeleteCategory, PermDeleteDistribution, PermDeleteHoraire, PermDeleteStore,
	PermReadPermissions, PermReadPermission, PermCreatePermission, PermUpdatePermission, PermDeletePermission,
	PermReadParentPermissions, PermReadParentPermission, PermCreateParentPermission,
	PermUpdateParentPermission, PermDeleteParentPermission,
	PermAddPermissionToUser, PermRemovePermissionToUser,
	PermDeleteRecuperation,
	PermReadRule, PermCreateRule, PermUpdateRule, PermDeleteRule,
	PermAddPermissionToRule, PermRemovePermissionToRule,
	PermDeleteTeam, PermDeleteUser,
}

// DefaultRole describes a role of the default hierarchy.
type DefaultRole struct {
	Name        string
	Permissions []string
}

// DefaultRoles returns the default role hierarchy, lowest first.
// Permission names are unique within each role.
func DefaultRoles() []DefaultRole {
	user := uniqueNames(userPermissions)
	admin := uniqueNames(append(append([]string{}, user...), adminPermissions...))
	superAdmin := uniqueNames(append(append([]string{}, admin...), superAdminPermissions...))

	return []DefaultRole{
		{Name: RoleUser, Permissions: user},
		{Name: RoleAdmin, Permissions: admin},
		{Name: RoleSuperAdmin, Permissions: superAdmin},
	}
}

func uniqueNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))

	for _, n := range in {
		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}
