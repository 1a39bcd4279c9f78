package handlers_test

import (
	"net/http"
	"testing"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/geocoder89/mealhub/internal/domain/order"
)

type specialResponse struct {
	Found           bool       `json:"found"`
	SpecialOfTheDay *meal.Meal `json:"specialOfTheDay"`
}

func TestMenu_ListsMealsWithSpecial(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/menu", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("ETag") == "" {
		t.Fatalf("expected ETag header")
	}

	var resp struct {
		Items           []meal.Meal `json:"items"`
		Count           int         `json:"count"`
		SpecialOfTheDay *meal.Meal  `json:"specialOfTheDay"`
	}
	decode(t, w, &resp)

	if resp.Count != 2 || len(resp.Items) != 2 {
		t.Fatalf("unexpected menu: %+v", resp)
	}
	if resp.SpecialOfTheDay == nil || resp.SpecialOfTheDay.Name != "Jollof Rice" {
		t.Fatalf("unexpected special: %+v", resp.SpecialOfTheDay)
	}
}

func TestSpecial_ByID(t *testing.T) {
	env := newTestEnv(t)

	var m meal.Meal
	decode(t, env.do(t, http.MethodGet, "/special/2", "", ""), &m)
	if m.Name != "Pepper Soup" {
		t.Fatalf("unexpected meal: %+v", m)
	}

	expectError(t, env.do(t, http.MethodGet, "/special/404", "", ""), http.StatusNotFound, "not_found")
}

func TestChefFoods_AddSetSpecialAndOrder(t *testing.T) {
	env := newTestEnv(t)
	chef := env.signUp(t, "gordon", "pw", "chef")
	diner := env.signUp(t, "ada", "pw", "user")

	w := env.do(t, http.MethodPost, "/chef-dashboard/foods", chef, `{"id":"f1","name":"Suya","description":"spicy","price":7.5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp specialResponse
	decode(t, env.do(t, http.MethodPut, "/chef-dashboard/special", chef, `{"foodId":"f1"}`), &resp)
	if !resp.Found || resp.SpecialOfTheDay == nil || resp.SpecialOfTheDay.Name != "Suya" {
		t.Fatalf("unexpected special: %+v", resp)
	}

	// chef foods are orderable too
	w = env.do(t, http.MethodPost, "/meal-list/orders", diner, `{"mealId":"f1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	var o order.Order
	decode(t, w, &o)
	if o.MealName != "Suya" {
		t.Fatalf("unexpected order: %+v", o)
	}
}

func TestSetSpecial_UnknownFoodClears(t *testing.T) {
	env := newTestEnv(t)
	chef := env.signUp(t, "gordon", "pw", "chef")

	var resp specialResponse
	decode(t, env.do(t, http.MethodPut, "/chef-dashboard/special", chef, `{"foodId":"nope"}`), &resp)

	if resp.Found || resp.SpecialOfTheDay != nil {
		t.Fatalf("expected cleared special, got %+v", resp)
	}

	var landing viewResponse
	decode(t, env.do(t, http.MethodGet, "/", "", ""), &landing)
	if landing.SpecialOfTheDay != nil {
		t.Fatalf("landing still shows a special: %+v", landing.SpecialOfTheDay)
	}
}

func TestAddFood_RequiresChef(t *testing.T) {
	env := newTestEnv(t)
	diner := env.signUp(t, "ada", "pw", "user")

	expectError(t, env.do(t, http.MethodPost, "/chef-dashboard/foods", diner, `{"id":"f1","name":"Suya"}`), http.StatusForbidden, "forbidden")
}
