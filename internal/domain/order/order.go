package order

import (
	"errors"
	"time"

	"github.com/geocoder89/mealhub/internal/domain/meal"
)

const (
	StatusPending = "Pending"

	// DateLayout is the YYYY-MM-DD form orders carry.
	DateLayout = "2006-01-02"
)

// ErrNoActiveSession is returned when an order is placed without a signed-in user.
var ErrNoActiveSession = errors.New("no active session")

type Order struct {
	ID       int     `json:"id"`
	MealID   meal.ID `json:"mealId"`
	MealName string  `json:"mealName"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	UserID   string  `json:"userId"`
}

type PlaceOrderRequest struct {
	MealID meal.ID `json:"mealId" binding:"required"`
}

func New(id int, m meal.Meal, userID string, now time.Time) Order {
	return Order{
		ID:       id,
		MealID:   m.ID,
		MealName: m.Name,
		Price:    m.Price,
		Date:     now.UTC().Format(DateLayout),
		Status:   StatusPending,
		UserID:   userID,
	}
}
