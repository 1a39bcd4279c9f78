package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/mealhub/internal/access"
	"github.com/geocoder89/mealhub/internal/auth"
	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/geocoder89/mealhub/internal/http/handlers"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/geocoder89/mealhub/internal/repo/memory"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/gin-gonic/gin"
)

type testEnv struct {
	r        *gin.Engine
	sessions *session.Manager
	catalog  *memory.CatalogRepo
	orders   *memory.OrdersRepo
}

type errorResponse struct {
	Error handlers.APIError `json:"error"`
}

var fixedNow = time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		sessions: session.NewManager(memory.NewUsersRepo(), time.Hour),
		catalog:  memory.NewCatalogRepo(),
		orders:   memory.NewOrdersRepoWithClock(func() time.Time { return fixedNow }),
	}
	env.catalog.ReplaceMeals(context.Background(), []meal.Meal{
		{ID: "1", Name: "Jollof Rice", Price: 12.5},
		{ID: "2", Name: "Pepper Soup", Price: 9},
	})

	tokens := auth.NewManager("test-secret", time.Hour)
	sessionMW := middlewares.NewSessionMiddleware(tokens, env.sessions)
	policy := access.NewPolicy()

	authH := handlers.NewAuthHandler(env.sessions, tokens, nil, nil)
	viewsH := handlers.NewViewsHandler(env.catalog, env.orders)
	catalogH := handlers.NewCatalogHandler(env.catalog, nil)
	ordersH := handlers.NewOrdersHandler(env.orders, env.catalog, nil, nil)

	r := gin.New()
	r.Use(sessionMW.LoadSession())

	r.GET("/", viewsH.Landing)
	r.GET("/about", viewsH.About)
	r.GET("/home", middlewares.RequireView(policy), viewsH.Home)

	r.POST("/signup", authH.SignUp)
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)
	r.GET("/session", authH.Session)

	r.GET("/menu", catalogH.Menu)
	r.GET("/special/:id", catalogH.Special)
	r.GET("/meal-list", catalogH.MealList)
	r.POST("/meal-list/orders", ordersH.PlaceOrder)
	r.GET("/order-history", ordersH.OrderHistory)
	r.GET("/my-orders", ordersH.MyOrders)

	chef := r.Group("/chef-dashboard", middlewares.RequireView(policy))
	chef.GET("", viewsH.ChefDashboard)
	chef.POST("/foods", catalogH.AddFood)
	chef.PUT("/special", catalogH.SetSpecial)

	admin := r.Group("/admin-dashboard", middlewares.RequireView(policy))
	admin.GET("", ordersH.AdminDashboard)
	admin.POST("/manage-orders", ordersH.ManageOrders)

	env.r = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

// signUp registers and returns the bearer token for the new session.
func (e *testEnv) signUp(t *testing.T, username, password, role string) string {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + username + `@x.test","password":"` + password + `","role":"` + role + `"}`
	w := e.do(t, http.MethodPost, "/signup", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: got status %d, body=%s", username, w.Code, w.Body.String())
	}

	var resp handlers.SessionResponse
	decode(t, w, &resp)
	if resp.AccessToken == "" {
		t.Fatalf("signup %s: missing access token", username)
	}
	return resp.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response: %v body=%s", err, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, status, w.Body.String())
	}

	var resp errorResponse
	decode(t, w, &resp)
	if resp.Error.Code != code {
		t.Fatalf("got error code %q, want %q", resp.Error.Code, code)
	}
}
