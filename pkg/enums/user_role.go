package enums

// UserRole identifies what kind of actor a user account represents.
type UserRole string

const (
	UserRoleCustomer     UserRole = "customer"
	UserRoleAdmin        UserRole = "admin"
	UserRoleShopOperator UserRole = "shop_operator"
)

// IsValid reports whether the role is one of the known values.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCustomer, UserRoleAdmin, UserRoleShopOperator:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}
