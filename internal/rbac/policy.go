package rbac

import "github.com/lcanales/stockdeck-backend/pkg/enums"

// Section is a dashboard area a role may see.
type Section string

const (
	SectionAnalytics Section = "analytics"
	SectionProducts  Section = "products"
	SectionSuppliers Section = "suppliers"
	SectionSales     Section = "sales"
	SectionUsers     Section = "users"
)

// Action is a server-side operation a role may perform. Route guards and the
// capabilities endpoint consult the same table.
type Action string

const (
	ActionProductsRead   Action = "products.read"
	ActionProductsWrite  Action = "products.write"
	ActionSuppliersRead  Action = "suppliers.read"
	ActionSuppliersWrite Action = "suppliers.write"
	ActionStockRead      Action = "stock.read"
	ActionStockWrite     Action = "stock.write"
	ActionSalesRead      Action = "sales.read"
	ActionSalesCreate    Action = "sales.create"
	ActionLinksRead      Action = "links.read"
	ActionLinksWrite     Action = "links.write"
	ActionAnalyticsRead  Action = "analytics.read"
	ActionUsersManage    Action = "users.manage"
)

// Capabilities is the declarative permission set for a role.
type Capabilities struct {
	Role     enums.Role `json:"role"`
	Sections []Section  `json:"sections"`
	Actions  []Action   `json:"actions"`
}

var capabilitiesByRole = map[enums.Role]Capabilities{
	enums.RoleAdmin: {
		Role: enums.RoleAdmin,
		Sections: []Section{
			SectionAnalytics, SectionProducts, SectionSuppliers, SectionSales, SectionUsers,
		},
		Actions: []Action{
			ActionProductsRead, ActionProductsWrite,
			ActionSuppliersRead, ActionSuppliersWrite,
			ActionStockRead, ActionStockWrite,
			ActionSalesRead, ActionSalesCreate,
			ActionLinksRead, ActionLinksWrite,
			ActionAnalyticsRead,
			ActionUsersManage,
		},
	},
	enums.RoleManager: {
		Role: enums.RoleManager,
		Sections: []Section{
			SectionAnalytics, SectionProducts, SectionSuppliers, SectionSales,
		},
		Actions: []Action{
			ActionProductsRead,
			ActionSuppliersRead,
			ActionStockRead,
			ActionSalesRead, ActionSalesCreate,
			ActionLinksRead,
			ActionAnalyticsRead,
		},
	},
	enums.RoleStaff: {
		Role:     enums.RoleStaff,
		Sections: []Section{SectionProducts, SectionSales},
		Actions: []Action{
			ActionProductsRead,
			ActionSuppliersRead,
			ActionStockRead,
			ActionSalesRead, ActionSalesCreate,
			ActionLinksRead,
		},
	},
	enums.RoleGuest: {
		Role:     enums.RoleGuest,
		Sections: []Section{SectionProducts},
		Actions: []Action{
			ActionProductsRead,
			ActionSuppliersRead,
			ActionStockRead,
			ActionSalesRead,
			ActionLinksRead,
		},
	},
}

// CapabilitiesFor returns the capability set for a role name.
func CapabilitiesFor(role enums.Role) (Capabilities, bool) {
	caps, ok := capabilitiesByRole[role]
	return caps, ok
}

// RoleAllows reports whether the role's capability set includes the action.
func RoleAllows(role enums.Role, action Action) bool {
	caps, ok := capabilitiesByRole[role]
	if !ok {
		return false
	}
	for _, candidate := range caps.Actions {
		if candidate == action {
			return true
		}
	}
	return false
}
