package roles

// Role represents a member's permission level in the club.
type Role string

const (
	User    Role = "user"
	Manager Role = "manager"
	Admin   Role = "admin"
)

// HierarchyLevel orders roles from least to most privileged.
type HierarchyLevel int

const (
	UserLevel    HierarchyLevel = 1
	ManagerLevel HierarchyLevel = 2
	AdminLevel   HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case User:
		return UserLevel
	case Manager:
		return ManagerLevel
	case Admin:
		return AdminLevel
	default:
		return UserLevel
	}
}

// HasPermission reports whether the role covers the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, Manager, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
