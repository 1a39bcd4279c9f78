package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/mealhub/internal/domain/meal"
)

// CatalogRepo holds the fetched menu, the chef's food list and the special of the day.
type CatalogRepo struct {
	mu      sync.RWMutex
	meals   []meal.Meal
	foods   []meal.Food
	special *meal.Meal
	loaded  bool
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{}
}

// ReplaceMeals swaps in a freshly fetched menu. The first meal becomes the special.
func (r *CatalogRepo) ReplaceMeals(_ context.Context, meals []meal.Meal) {
	cp := make([]meal.Meal, len(meals))
	copy(cp, meals)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.meals = cp
	r.loaded = true
	if len(cp) == 0 {
		r.special = nil
		return
	}
	first := cp[0]
	r.special = &first
}

// MarkLoadFinished records that the startup fetch ran, even if it failed.
func (r *CatalogRepo) MarkLoadFinished() {
	r.mu.Lock()
	r.loaded = true
	r.mu.Unlock()
}

func (r *CatalogRepo) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *CatalogRepo) AddFood(_ context.Context, f meal.Food) error {
	r.mu.Lock()
	r.foods = append(r.foods, f)
	r.mu.Unlock()
	return nil
}

// SetSpecialOfTheDay features the chef food with the given id. An unknown id
// clears the special; it is not an error. Reports whether the id was found.
func (r *CatalogRepo) SetSpecialOfTheDay(_ context.Context, foodID meal.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.foods {
		if f.ID.Equal(foodID) {
			m := f.AsMeal()
			r.special = &m
			return true
		}
	}

	r.special = nil
	return false
}

func (r *CatalogRepo) Meals(_ context.Context) []meal.Meal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]meal.Meal, len(r.meals))
	copy(out, r.meals)
	return out
}

func (r *CatalogRepo) Foods(_ context.Context) []meal.Food {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]meal.Food, len(r.foods))
	copy(out, r.foods)
	return out
}

func (r *CatalogRepo) Special(_ context.Context) (meal.Meal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.special == nil {
		return meal.Meal{}, false
	}
	return *r.special, true
}

// GetMeal looks only at the fetched menu.
func (r *CatalogRepo) GetMeal(_ context.Context, id meal.ID) (meal.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.meals {
		if m.ID.Equal(id) {
			return m, nil
		}
	}
	return meal.Meal{}, meal.ErrNotFound
}

// FindOrderable resolves a meal reference against the menu first, then the chef's foods.
func (r *CatalogRepo) FindOrderable(ctx context.Context, id meal.ID) (meal.Meal, error) {
	if m, err := r.GetMeal(ctx, id); err == nil {
		return m, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.foods {
		if f.ID.Equal(id) {
			return f.AsMeal(), nil
		}
	}
	return meal.Meal{}, meal.ErrNotFound
}
