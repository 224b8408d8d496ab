package auth

// Action names an operation a role may be allowed to perform. The UI gates
// itself on these; the storage layer consults them only as data.
type Action string

const (
	ActionViewProducts    Action = "view_products"
	ActionAddOrder        Action = "add_order"
	ActionViewOwnOrders   Action = "view_own_orders"
	ActionDeleteOwnOrders Action = "delete_own_orders"
	ActionEditOwnProducts Action = "edit_own_products"
	ActionViewProfile     Action = "view_profile"
	ActionViewSettings    Action = "view_settings"
)

// userActions is the allowed-action set for the regular-user role. Admins
// are allowed everything and are not listed.
var userActions = map[Action]bool{
	ActionViewProducts:    true,
	ActionAddOrder:        true,
	ActionViewOwnOrders:   true,
	ActionDeleteOwnOrders: true,
	ActionEditOwnProducts: true,
	ActionViewProfile:     true,
	ActionViewSettings:    true,
}

// Allowed reports whether the session may perform the action. Anonymous
// sessions are allowed nothing.
func Allowed(s *Session, action Action) bool {
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	return userActions[action]
}
