package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProductJSONShape(t *testing.T) {
	p := Product{Name: "Widget", Price: decimal.RequireFromString("9.99"), Stock: 5,
		Images: []Image{}, Categories: []Category{}}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, "Widget", got["name"])
	require.Equal(t, 9.99, got["price"])
	require.EqualValues(t, 5, got["stock"])
	require.Equal(t, []any{}, got["images"])
	require.Equal(t, []any{}, got["categories"])
	require.Nil(t, got["description"])
}

func TestUserHidesPasswordHash(t *testing.T) {
	hash, err := HashPassword("12345678")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "12345678"))
	require.False(t, CheckPassword(hash, "nope"))

	raw, err := json.Marshal(User{Name: "admin", Email: "admin@gmail.com", PasswordHash: hash})
	require.NoError(t, err)
	require.NotContains(t, string(raw), hash)
}

func TestOwnerKind(t *testing.T) {
	require.True(t, OwnerProduct.Valid())
	require.True(t, OwnerPost.Valid())
	require.False(t, OwnerKind("user").Valid())

	p := &Product{Base: Base{ID: 7}}
	kind, id := p.OwnerRef()
	require.Equal(t, OwnerProduct, kind)
	require.EqualValues(t, 7, id)
}
