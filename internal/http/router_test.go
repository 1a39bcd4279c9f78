package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/geocoder89/mealhub/internal/auth"
	"github.com/geocoder89/mealhub/internal/config"
	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/geocoder89/mealhub/internal/domain/order"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/geocoder89/mealhub/internal/observability"
	"github.com/geocoder89/mealhub/internal/repo/memory"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerEnv struct {
	r       nethttp.Handler
	catalog *memory.CatalogRepo
	orders  *memory.OrdersRepo
}

func newRouterEnv(t *testing.T, limit middlewares.LimitStore) routerEnv {
	t.Helper()

	cfg := config.Config{
		Env:                "test",
		AuthRateLimit:      100,
		AuthRateWindow:     time.Minute,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}

	reg := prometheus.NewRegistry()
	env := routerEnv{
		catalog: memory.NewCatalogRepo(),
		orders:  memory.NewOrdersRepo(),
	}

	env.r = NewRouter(observability.NewLogger("test"), cfg, Deps{
		Sessions:   session.NewManager(memory.NewUsersRepo(), time.Hour),
		Tokens:     auth.NewManager("test-secret", time.Hour),
		Catalog:    env.catalog,
		Orders:     env.orders,
		Prom:       observability.NewProm(reg),
		Gatherer:   reg,
		LimitStore: limit,
	})
	return env
}

func (e routerEnv) call(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *nethttp.Request
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

func TestRouter_ChefFlow(t *testing.T) {
	env := newRouterEnv(t, nil)
	env.catalog.MarkLoadFinished()

	w := env.call(t, nethttp.MethodPost, "/signup", "", `{"username":"amy","email":"amy@x.test","password":"x","role":"chef"}`)
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())

	var signup struct {
		AccessToken string          `json:"accessToken"`
		Session     session.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	require.NotNil(t, signup.Session.User)
	assert.Equal(t, "chef", string(signup.Session.User.Role))
	token := signup.AccessToken

	w = env.call(t, nethttp.MethodPost, "/chef-dashboard/foods", token, `{"id":1,"name":"Soup","price":5}`)
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())

	w = env.call(t, nethttp.MethodPut, "/chef-dashboard/special", token, `{"foodId":1}`)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	var special struct {
		SpecialOfTheDay *meal.Meal `json:"specialOfTheDay"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &special))
	require.NotNil(t, special.SpecialOfTheDay)
	assert.Equal(t, "Soup", special.SpecialOfTheDay.Name)

	w = env.call(t, nethttp.MethodPost, "/meal-list/orders", token, `{"mealId":1}`)
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"mealId":1,`)

	orders, err := env.orders.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, 1, o.ID)
	assert.Equal(t, meal.ID("1"), o.MealID)
	assert.Equal(t, "Soup", o.MealName)
	assert.Equal(t, 5.0, o.Price)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, signup.Session.User.ID, o.UserID)

	metrics := env.call(t, nethttp.MethodGet, "/metrics", "", "")
	require.Equal(t, nethttp.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "mealhub_orders_placed_total 1")
	assert.Contains(t, metrics.Body.String(), `mealhub_auth_attempts_total{action="signup",result="ok"} 1`)
}

func TestRouter_ReadyzWaitsForCatalog(t *testing.T) {
	env := newRouterEnv(t, nil)

	assert.Equal(t, nethttp.StatusOK, env.call(t, nethttp.MethodGet, "/healthz", "", "").Code)

	w := env.call(t, nethttp.MethodGet, "/readyz", "", "")
	assert.Equal(t, nethttp.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "catalog")

	env.catalog.ReplaceMeals(context.Background(), []meal.Meal{{ID: "1", Name: "Rice", Price: 3}})

	assert.Equal(t, nethttp.StatusOK, env.call(t, nethttp.MethodGet, "/readyz", "", "").Code)
}

func TestRouter_AuthRateLimitedWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newRouterEnv(t, middlewares.NewRedisLimitStore(rdb, 2, time.Minute))

	for i := 0; i < 2; i++ {
		w := env.call(t, nethttp.MethodPost, "/login", "", `{"username":"ghost","password":"pw"}`)
		require.Equal(t, nethttp.StatusUnauthorized, w.Code)
	}

	w := env.call(t, nethttp.MethodPost, "/login", "", `{"username":"ghost","password":"pw"}`)
	assert.Equal(t, nethttp.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRouter_RejectsNonJSONWrites(t *testing.T) {
	env := newRouterEnv(t, nil)

	req := httptest.NewRequest(nethttp.MethodPost, "/signup", strings.NewReader("username=amy"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_AdminDashboardForbiddenForChef(t *testing.T) {
	env := newRouterEnv(t, nil)

	w := env.call(t, nethttp.MethodPost, "/signup", "", `{"username":"amy","email":"amy@x.test","password":"x","role":"chef"}`)
	require.Equal(t, nethttp.StatusCreated, w.Code)

	var signup struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))

	w = env.call(t, nethttp.MethodGet, "/admin-dashboard", signup.AccessToken, "")
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	var resp struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "forbidden", resp.Error.Code)
	assert.Equal(t, w.Header().Get("X-Request-Id"), resp.Error.RequestID)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestRouter_SessionsExpireWithTheirTokens(t *testing.T) {
	now := time.Now()
	sessions := session.NewManagerWithClock(memory.NewUsersRepo(), time.Hour, func() time.Time { return now })

	r := NewRouter(observability.NewLogger("test"), config.Config{Env: "test", AuthRateLimit: 100, AuthRateWindow: time.Minute}, Deps{
		Sessions: sessions,
		Tokens:   auth.NewManager("test-secret", time.Hour),
		Catalog:  memory.NewCatalogRepo(),
		Orders:   memory.NewOrdersRepo(),
	})
	env := routerEnv{r: r}

	w := env.call(t, nethttp.MethodPost, "/signup", "", `{"username":"amy","email":"amy@x.test","password":"x"}`)
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())

	var signup struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))

	for i := 0; i < 50; i++ {
		w := env.call(t, nethttp.MethodPost, "/login", "", `{"username":"amy","password":"x"}`)
		require.Equal(t, nethttp.StatusOK, w.Code)
	}
	require.Equal(t, 51, sessions.Len())

	now = now.Add(61 * time.Minute)

	assert.Equal(t, 0, sessions.Sweep())

	w = env.call(t, nethttp.MethodGet, "/session", signup.AccessToken, "")
	assert.Contains(t, w.Body.String(), `"state":"anonymous"`)
}
