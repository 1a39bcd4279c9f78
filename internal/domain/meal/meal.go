package meal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("meal not found")

// Meal is a menu entry. Only id, name and price are interpreted; everything else
// the menu source sends is kept in Extra and echoed back unchanged.
type Meal struct {
	ID    ID                         `json:"id"`
	Name  string                     `json:"name"`
	Price float64                    `json:"price"`
	Extra map[string]json.RawMessage `json:"-"`
}

var knownFields = map[string]struct{}{"id": {}, "name": {}, "price": {}}

func (m *Meal) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var out Meal
	if v, ok := raw["id"]; ok {
		if err := out.ID.UnmarshalJSON(v); err != nil {
			return err
		}
	}
	if v, ok := raw["name"]; ok {
		if err := json.Unmarshal(v, &out.Name); err != nil {
			return err
		}
	}
	if v, ok := raw["price"]; ok {
		p, err := parsePrice(v)
		if err != nil {
			return err
		}
		out.Price = p
	}

	for k, v := range raw {
		if _, known := knownFields[k]; known {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*m = out
	return nil
}

func (m Meal) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["id"] = m.ID
	out["name"] = m.Name
	out["price"] = m.Price
	return json.Marshal(out)
}

// prices arrive as numbers or numeric strings ("4.50")
func parsePrice(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	var f float64
	err := json.Unmarshal(b, &f)
	return f, err
}

// Food is an item a chef adds to the kitchen list.
type Food struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

// AsMeal lets a chef-added food be ordered or featured like a menu meal.
func (f Food) AsMeal() Meal {
	return Meal{ID: f.ID, Name: f.Name, Price: f.Price}
}

type AddFoodRequest struct {
	ID          ID      `json:"id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=120"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
	Price       float64 `json:"price" binding:"omitempty,min=0"`
}

func NewFood(req AddFoodRequest) Food {
	return Food{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
}
