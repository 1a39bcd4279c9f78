package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/geocoder89/mealhub/internal/domain/order"
	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type OrderLedger interface {
	AddOrder(ctx context.Context, m meal.Meal, current *user.Profile) (order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]order.Order, error)
}

type MealFinder interface {
	FindOrderable(ctx context.Context, id meal.ID) (meal.Meal, error)
}

type OrdersHandler struct {
	ledger  OrderLedger
	meals   MealFinder
	metrics Metrics
	log     *slog.Logger
}

func NewOrdersHandler(ledger OrderLedger, meals MealFinder, metrics Metrics, log *slog.Logger) *OrdersHandler {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &OrdersHandler{ledger: ledger, meals: meals, metrics: metrics, log: log}
}

func (h *OrdersHandler) PlaceOrder(ctx *gin.Context) {
	var req order.PlaceOrderRequest

	if !BindJSON(ctx, &req) {
		return
	}

	rctx := ctx.Request.Context()

	m, err := h.meals.FindOrderable(rctx, req.MealID)
	if err != nil {
		if errors.Is(err, meal.ErrNotFound) {
			RespondNotFound(ctx, "Meal not found")
			return
		}
		RespondInternal(ctx, "Could not place order")
		return
	}

	// nil when anonymous; the ledger refuses that
	snap := middlewares.SnapshotFromContext(ctx)

	o, err := h.ledger.AddOrder(rctx, m, snap.User)
	if err != nil {
		if errors.Is(err, order.ErrNoActiveSession) {
			RespondUnAuthorized(ctx, "no_active_session", "Sign in to place an order.")
			return
		}
		h.log.ErrorContext(rctx, "add order failed", "err", err)
		RespondInternal(ctx, "Could not place order")
		return
	}

	h.metrics.IncOrderPlaced()
	h.log.InfoContext(rctx, "order placed", "order_id", o.ID, "meal_id", o.MealID, "user_id", o.UserID)

	ctx.JSON(http.StatusCreated, o)
}

// OrderHistory lists every order in the ledger.
func (h *OrdersHandler) OrderHistory(ctx *gin.Context) {
	orders, err := h.ledger.ListOrders(ctx.Request.Context())
	if err != nil {
		RespondInternal(ctx, "Could not list orders")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": orders,
		"count": len(orders),
	})
}

// MyOrders lists the signed-in user's orders; anonymous visitors get an empty list.
func (h *OrdersHandler) MyOrders(ctx *gin.Context) {
	snap := middlewares.SnapshotFromContext(ctx)

	orders := []order.Order{}
	if snap.IsLoggedIn && snap.User != nil {
		var err error
		orders, err = h.ledger.ListOrdersForUser(ctx.Request.Context(), snap.User.ID)
		if err != nil {
			RespondInternal(ctx, "Could not list orders")
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":  snap.User,
		"items": orders,
		"count": len(orders),
	})
}

func (h *OrdersHandler) AdminDashboard(ctx *gin.Context) {
	orders, err := h.ledger.ListOrders(ctx.Request.Context())
	if err != nil {
		RespondInternal(ctx, "Could not list orders")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"view":   "admin-dashboard",
		"orders": orders,
		"count":  len(orders),
	})
}

// ManageOrders is a placeholder: orders have no status transitions yet, so it
// only logs the ledger and reports its size.
func (h *OrdersHandler) ManageOrders(ctx *gin.Context) {
	rctx := ctx.Request.Context()

	orders, err := h.ledger.ListOrders(rctx)
	if err != nil {
		RespondInternal(ctx, "Could not list orders")
		return
	}

	h.log.InfoContext(rctx, "managing orders", "count", len(orders))

	ctx.JSON(http.StatusAccepted, gin.H{
		"count":   len(orders),
		"message": "Order status changes are not available yet.",
	})
}
