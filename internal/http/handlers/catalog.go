package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/gin-gonic/gin"
)

type CatalogReader interface {
	Meals(ctx context.Context) []meal.Meal
	Foods(ctx context.Context) []meal.Food
	Special(ctx context.Context) (meal.Meal, bool)
	GetMeal(ctx context.Context, id meal.ID) (meal.Meal, error)
}

type CatalogWriter interface {
	AddFood(ctx context.Context, f meal.Food) error
	SetSpecialOfTheDay(ctx context.Context, foodID meal.ID) bool
}

type CatalogStore interface {
	CatalogReader
	CatalogWriter
}

type CatalogHandler struct {
	catalog CatalogStore
	log     *slog.Logger
}

func NewCatalogHandler(catalog CatalogStore, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{catalog: catalog, log: log}
}

func specialOrNil(ctx context.Context, c CatalogReader) *meal.Meal {
	m, ok := c.Special(ctx)
	if !ok {
		return nil
	}
	return &m
}

func (h *CatalogHandler) MealList(ctx *gin.Context) {
	meals := h.catalog.Meals(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"items": meals,
		"count": len(meals),
	})
}

func (h *CatalogHandler) Menu(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	meals := h.catalog.Meals(rctx)

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items":           meals,
		"count":           len(meals),
		"specialOfTheDay": specialOrNil(rctx, h.catalog),
	})
}

func (h *CatalogHandler) Special(ctx *gin.Context) {
	m, err := h.catalog.GetMeal(ctx.Request.Context(), meal.ParseID(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, meal.ErrNotFound) {
			RespondNotFound(ctx, "Meal not found")
			return
		}
		RespondInternal(ctx, "Could not fetch meal")
		return
	}

	ctx.JSON(http.StatusOK, m)
}

func (h *CatalogHandler) AddFood(ctx *gin.Context) {
	var req meal.AddFoodRequest

	if !BindJSON(ctx, &req) {
		return
	}

	f := meal.NewFood(req)

	if err := h.catalog.AddFood(ctx.Request.Context(), f); err != nil {
		RespondInternal(ctx, "Could not add food")
		return
	}

	ctx.JSON(http.StatusCreated, f)
}

type SetSpecialRequest struct {
	FoodID meal.ID `json:"foodId" binding:"required"`
}

// SetSpecial features a chef food. An unknown id clears the special instead of failing.
func (h *CatalogHandler) SetSpecial(ctx *gin.Context) {
	var req SetSpecialRequest

	if !BindJSON(ctx, &req) {
		return
	}

	rctx := ctx.Request.Context()
	found := h.catalog.SetSpecialOfTheDay(rctx, req.FoodID)
	if !found {
		h.log.DebugContext(rctx, "special of the day cleared, food not found", "food_id", req.FoodID)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"found":           found,
		"specialOfTheDay": specialOrNil(rctx, h.catalog),
	})
}
