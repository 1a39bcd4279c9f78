package meal_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeal_UnmarshalKeepsUnknownFields(t *testing.T) {
	var m meal.Meal
	err := json.Unmarshal([]byte(`{"id":7,"name":"Ramen","price":"12.50","spicy":true,"tags":["hot"]}`), &m)
	require.NoError(t, err)

	assert.Equal(t, meal.ID("7"), m.ID)
	assert.Equal(t, "Ramen", m.Name)
	assert.InDelta(t, 12.5, m.Price, 0.0001)
	assert.JSONEq(t, `true`, string(m.Extra["spicy"]))
	assert.JSONEq(t, `["hot"]`, string(m.Extra["tags"]))

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Ramen","price":12.5,"spicy":true,"tags":["hot"]}`, string(out))
}

func TestID_AcceptsStringOrNumber(t *testing.T) {
	var list []meal.Meal
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"abc"},{"id":3}]`), &list))

	require.Len(t, list, 2)
	assert.Equal(t, meal.StringID("abc"), list[0].ID)
	assert.Equal(t, "abc", list[0].ID.String())
	assert.Equal(t, meal.ID("3"), list[1].ID)
}

func TestID_RejectsObjects(t *testing.T) {
	var m meal.Meal
	err := json.Unmarshal([]byte(`{"id":{"nested":1}}`), &m)
	assert.Error(t, err)
}

func TestFood_AsMeal(t *testing.T) {
	f := meal.NewFood(meal.AddFoodRequest{ID: "1", Name: "Soup", Price: 5})

	m := f.AsMeal()
	assert.Equal(t, meal.ID("1"), m.ID)
	assert.Equal(t, "Soup", m.Name)
	assert.Equal(t, 5.0, m.Price)
}

func TestID_RoundTripKeepsJSONType(t *testing.T) {
	cases := []string{
		`{"id":1,"name":"Soup","price":5}`,
		`{"id":"1","name":"Soup","price":5}`,
		`{"id":1.0,"name":"Soup","price":5}`,
		`{"id":"abc","name":"Soup","price":5}`,
	}

	for _, in := range cases {
		var m meal.Meal
		require.NoError(t, json.Unmarshal([]byte(in), &m))

		out, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
		assert.Contains(t, string(out), in[1:strings.Index(in, ",")], "id token kept verbatim")
	}
}

func TestID_Equal(t *testing.T) {
	assert.True(t, meal.ID("1").Equal(meal.ID("1.0")))
	assert.True(t, meal.ID("1").Equal(meal.ParseID("1")))
	assert.True(t, meal.ID("10").Equal(meal.ID("1e1")))
	assert.True(t, meal.StringID("f1").Equal(meal.ParseID("f1")))
	assert.True(t, meal.StringID("1").Equal(meal.ID("1")), "string and number with the same text match")
	assert.False(t, meal.ID("1").Equal(meal.ID("2")))
	assert.False(t, meal.ID("").Equal(meal.ID("")))
}

func TestParseID(t *testing.T) {
	assert.True(t, meal.ParseID("42").IsNumber())
	assert.False(t, meal.ParseID("soup-1").IsNumber())
	assert.Equal(t, "soup-1", meal.ParseID("soup-1").String())
	assert.True(t, meal.ParseID(" ").IsZero())
}
