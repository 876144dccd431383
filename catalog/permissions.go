package catalog

// Role is the closed set of admin roles. Keeping this a declared type with an
// exhaustive Permissions switch means a new role cannot be added without the
// compiler pointing at every place that must handle it.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
)

// Permission names one gated area of the admin application.
type Permission string

const (
	PermProducts    Permission = "products"
	PermOrders      Permission = "orders"
	PermBrands      Permission = "brands"
	PermCategories  Permission = "categories"
	PermBlog        Permission = "blog"
	PermUsers       Permission = "users"
	PermUploadImage Permission = "upload_image"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Permissions returns the permission set for a role. The function is total:
// unknown roles get no permissions rather than panicking, so a stale token
// degrades to an empty navigation instead of a crash.
func Permissions(r Role) []Permission {
	switch r {
	case RoleSuperAdmin:
		return []Permission{
			PermProducts, PermOrders, PermBrands, PermCategories,
			PermBlog, PermUsers, PermUploadImage,
		}
	case RoleAdmin:
		return []Permission{
			PermProducts, PermOrders, PermBrands, PermCategories,
			PermBlog, PermUploadImage,
		}
	case RoleEditor:
		return []Permission{PermProducts, PermBlog, PermUploadImage}
	case RoleViewer:
		return []Permission{PermProducts, PermOrders}
	default:
		return nil
	}
}

// Can reports whether the role grants the permission.
func Can(r Role, p Permission) bool {
	for _, granted := range Permissions(r) {
		if granted == p {
			return true
		}
	}
	return false
}
