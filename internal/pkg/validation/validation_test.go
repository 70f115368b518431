package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{float64(2000), 2000, true},
		{"2000", 2000, true},
		{" 2.5 ", 2.5, true},
		{"₹2,000", 0, false},
		{"2 tons", 0, false},
		{"NaN", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestFirstMissing(t *testing.T) {
	body := map[string]interface{}{"title": "Rice Husk", "description": "  ", "price": 0.0}
	assert.Equal(t, "description", FirstMissing(body, "title", "description", "price"))
	assert.Equal(t, "unit", FirstMissing(body, "title", "price", "unit"))
	assert.Equal(t, "", FirstMissing(body, "title", "price"))
}

type ratingInput struct {
	Rating int    `validate:"required,min=1,max=5"`
	Role   string `validate:"omitempty,oneof=seller buyer"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(ratingInput{Rating: 5, Role: "buyer"}))
	assert.EqualError(t, Struct(ratingInput{}), "Missing required field: rating")
	assert.Error(t, Struct(ratingInput{Rating: 6}))
	assert.Error(t, Struct(ratingInput{Rating: 3, Role: "admin"}))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("seller1@example.com"))
	assert.False(t, IsValidEmail("seller1@example"))
	assert.False(t, IsValidEmail("not an email"))
}
