package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/mealhub/internal/access"
	"github.com/geocoder89/mealhub/internal/domain/order"
	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type OrdersLister interface {
	ListOrders(ctx context.Context) ([]order.Order, error)
}

type ViewsHandler struct {
	catalog CatalogReader
	orders  OrdersLister
}

func NewViewsHandler(catalog CatalogReader, orders OrdersLister) *ViewsHandler {
	return &ViewsHandler{catalog: catalog, orders: orders}
}

func (h *ViewsHandler) Landing(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.landing(ctx.Request.Context()))
}

func (h *ViewsHandler) landing(ctx context.Context) gin.H {
	return gin.H{
		"view":            "landing",
		"specialOfTheDay": specialOrNil(ctx, h.catalog),
		"links": []Link{
			{Label: "Menu", Path: "/menu"},
			{Label: "Sign Up", Path: "/signup"},
			{Label: "Login", Path: "/login"},
		},
	}
}

// Home shows the dashboard to signed-in visitors and the landing view to everyone else.
func (h *ViewsHandler) Home(ctx *gin.Context) {
	if middlewares.DecisionFromContext(ctx) == access.FallbackLanding {
		h.Landing(ctx)
		return
	}

	snap := middlewares.SnapshotFromContext(ctx)
	if !snap.IsLoggedIn || snap.User == nil {
		h.Landing(ctx)
		return
	}

	name := snap.User.Username
	if name == "" {
		name = "Guest"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"view":     "dashboard",
		"greeting": "Welcome, " + name,
		"user":     snap.User,
		"links":    dashboardLinks(snap.User.Role),
	})
}

func dashboardLinks(role user.Role) []Link {
	switch role {
	case user.RoleAdmin:
		return []Link{
			{Label: "Manage Orders", Path: "/admin-dashboard"},
			{Label: "View Orders", Path: "/order-history"},
		}
	case user.RoleChef:
		return []Link{
			{Label: "Chef Dashboard", Path: "/chef-dashboard"},
			{Label: "View Meals", Path: "/meal-list"},
			{Label: "Order History", Path: "/order-history"},
		}
	default:
		return []Link{
			{Label: "View Meals", Path: "/meal-list"},
			{Label: "Order History", Path: "/order-history"},
			{Label: "My Orders", Path: "/my-orders"},
		}
	}
}

func (h *ViewsHandler) ChefDashboard(ctx *gin.Context) {
	rctx := ctx.Request.Context()

	orders, err := h.orders.ListOrders(rctx)
	if err != nil {
		RespondInternal(ctx, "Could not list orders")
		return
	}

	foods := h.catalog.Foods(rctx)

	ctx.JSON(http.StatusOK, gin.H{
		"view":            "chef-dashboard",
		"foods":           foods,
		"orders":          orders,
		"specialOfTheDay": specialOrNil(rctx, h.catalog),
	})
}

type contactInfo struct {
	Location string            `json:"location"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Fax      string            `json:"fax"`
	Social   map[string]string `json:"social"`
}

var about = gin.H{
	"view":  "about",
	"about": "Fresh meals from our kitchen, ordered online.",
	"contact": contactInfo{
		Location: "1234 Tea Avenue, Suite 100, Downtown City, State 12345",
		Email:    "contact@ourcompany.com",
		Phone:    "(555) 123-4567",
		Fax:      "(555) 765-4321",
		Social: map[string]string{
			"instagram": "https://www.instagram.com/ourcompany",
			"facebook":  "https://www.facebook.com/ourcompany",
		},
	},
}

func (h *ViewsHandler) About(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, about)
}
