package entity

// Roles válidos.
const (
	RoleAdmin    = "administrador"
	RoleVendedor = "vendedor"
)

// Principal identidad ya autenticada que invoca una operación.
type Principal struct {
	UserID       string
	Role         string
	HomeBranchID string
}

// IsAdmin indica si el principal es administrador.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanAccessBranch el administrador accede a todas las sucursales; el vendedor solo a la suya.
func (p Principal) CanAccessBranch(branchID string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == RoleVendedor && p.HomeBranchID != "" && p.HomeBranchID == branchID
}
