package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name        string   `json:"name" validate:"required,max=5"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	PublishedAt string   `json:"published_at" validate:"omitempty,date"`
	Ids         []uint   `json:"ids" validate:"omitempty,dive,min=1"`
}

func TestFromErrorValidator(t *testing.T) {
	v := New("json")
	neg := -1.0
	err := v.Struct(sample{Name: "toolong", Price: &neg, PublishedAt: "yesterday", Ids: []uint{3, 0}})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, FromError(err, ""), &verr)
	require.Equal(t, map[string][]string{
		"name":         {"The name field must not be greater than 5 characters."},
		"price":        {"The price field must be at least 0."},
		"published_at": {"The published at field must be a valid date."},
		"ids.1":        {"The ids.1 field must be at least 1."},
	}, verr.Fields)
	require.Equal(t, 4, verr.Count())
}

func TestFromErrorPrefix(t *testing.T) {
	v := New("json")
	err := FromError(v.Struct(sample{}), "2.")

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"The name field is required."}, verr.Fields["2.name"])
}

func TestFromErrorJSONType(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"price":"cheap"}`), &s)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, FromError(err, ""), &verr)
	require.Equal(t, []string{"The price field must be a number."}, verr.Fields["price"])
}

func TestFromErrorPassThrough(t *testing.T) {
	boom := errors.New("boom")
	require.Same(t, boom, FromError(boom, ""))
}

func TestErrorString(t *testing.T) {
	e := Field("slug", Message("slug", "unique", ""))
	require.Equal(t, "The slug has already been taken.", e.Error())
	e.Add("name", Message("name", "required", ""))
	require.Equal(t, "The name field is required. (and 1 more error)", e.Error())
	require.Nil(t, (&Error{}).OrNil())
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("2024-01-01")
	require.True(t, ok)
	_, ok = ParseDate("2024-01-01T10:00:00Z")
	require.True(t, ok)
	_, ok = ParseDate("01/01/2024")
	require.False(t, ok)
}
