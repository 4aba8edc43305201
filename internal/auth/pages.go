// AngelaMos | 2026
// pages.go

package auth

import (
	"net/http"
	"slices"

	"github.com/carterperez-dev/orderdesk/internal/middleware"
)

const (
	RoleAdmin      = "Admin"
	RoleStandard   = "Standard"
	RoleGuest      = "Guest"
	RoleBackOffice = "Back Office"
)

// Roles lists the roles a user can be created with. Stored users may carry
// other, legacy values; those only reach the dashboard.
var Roles = []string{RoleAdmin, RoleStandard, RoleGuest, RoleBackOffice}

func IsKnownRole(role string) bool {
	return slices.Contains(Roles, role)
}

type Page string

const (
	PageDashboard    Page = "dashboard"
	PageAddUser      Page = "add-user"
	PageDeleteUser   Page = "delete-user"
	PageModels       Page = "models"
	PageDistributors Page = "distributors"
	PageCreateOrder  Page = "create-order"
	PageUpdateOrder  Page = "update-order"
)

var rolePages = map[string][]Page{
	RoleAdmin: {
		PageDashboard,
		PageAddUser,
		PageDeleteUser,
		PageModels,
		PageDistributors,
		PageCreateOrder,
		PageUpdateOrder,
	},
	RoleStandard:   {PageDashboard, PageCreateOrder, PageUpdateOrder},
	RoleBackOffice: {PageDashboard, PageCreateOrder, PageUpdateOrder},
	RoleGuest:      {PageDashboard, PageCreateOrder},
}

// PagesFor returns the pages a role may open, in menu order.
func PagesFor(role string) []Page {
	pages, ok := rolePages[role]
	if !ok {
		return []Page{PageDashboard}
	}
	return slices.Clone(pages)
}

func CanAccess(role string, page Page) bool {
	return slices.Contains(PagesFor(role), page)
}

// RolesFor lists the known roles that may open page.
func RolesFor(page Page) []string {
	var roles []string
	for _, role := range Roles {
		if CanAccess(role, page) {
			roles = append(roles, role)
		}
	}
	return roles
}

// Guard returns middleware admitting only roles that may open page. The
// dashboard is open to every authenticated role, including legacy ones.
func Guard(page Page) func(http.Handler) http.Handler {
	if page == PageDashboard {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RequireRole(RolesFor(page)...)
}
