package tenancy

import "juntacomunal/internal/models"

// Policy lists the roles allowed to run an operation. The zero Policy only
// requires an active membership.
type Policy struct {
	Roles []models.Role
}

var (
	ReadRoles  = Policy{Roles: []models.Role{models.RoleOwner, models.RoleAdmin, models.RoleMember}}
	WriteRoles = Policy{Roles: []models.Role{models.RoleOwner, models.RoleAdmin}}
	OwnerOnly  = Policy{Roles: []models.Role{models.RoleOwner}}
)

func (p Policy) Allows(role models.Role) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
