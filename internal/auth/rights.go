package auth

import "authcore/internal/models"

// Right is a permission derived from the roles an account holds
type Right string

const (
	RightLogin      Right = "general:login"
	RightUserDelete Right = "user:delete"
)

var roleRights = map[models.RoleName][]Right{
	models.RoleSuperAdmin:   {RightLogin, RightUserDelete},
	models.RoleAdmin:        {RightLogin, RightUserDelete},
	models.RoleCompanyAdmin: {RightLogin},
	models.RoleEmployee:     {RightLogin},
	models.RoleUser:         {RightLogin},
}

// HasRight reports whether any role of the account grants right
func HasRight(account *models.Account, right Right) bool {
	for _, role := range account.Roles {
		for _, r := range roleRights[role.Name] {
			if r == right {
				return true
			}
		}
	}
	return false
}
