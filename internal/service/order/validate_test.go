package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windstruck-api/internal/domain"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	return verr.Fields
}

func TestValidate_ComputesTotal(t *testing.T) {
	in, err := Validate(CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{
			{"product_id": "p1", "quantity": 2.0, "price": 32.0},
			{"product_id": "p2", "quantity": 1.0, "price": 68.0},
		},
	})
	require.NoError(t, err)

	assert.True(t, in.Total.Equal(decimal.NewFromInt(132)), in.Total.String())
	require.Len(t, in.Items, 2)
	assert.Equal(t, 2, in.Items[0].Quantity)
	assert.Equal(t, 32.0, in.Items[0].Price)
}

func TestValidate_TotalIsExactSumOfItems(t *testing.T) {
	items := []map[string]any{
		{"product_id": "a", "quantity": 3.0, "price": 0.1},
		{"product_id": "b", "quantity": "2", "price": "19.99"},
		{"product_id": "c", "quantity": 7.0, "price": 0.7},
	}
	in, err := Validate(CreateRequest{Email: "x@y.io", Items: items})
	require.NoError(t, err)

	// 0.3 + 39.98 + 4.9
	assert.Equal(t, "45.18", in.Total.StringFixed(2))
	assert.True(t, in.Total.Equal(decimal.RequireFromString("45.18")))
}

func TestValidate_Defaults(t *testing.T) {
	in, err := Validate(CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{
			{"product_id": "p1", "price": 10.5},
			{"product_id": "p2", "quantity": 4.0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, in.Items[0].Quantity, "quantity defaults to 1")
	assert.Equal(t, 0.0, in.Items[1].Price, "price defaults to 0")
	assert.True(t, in.Total.Equal(decimal.RequireFromString("10.5")))
	assert.Nil(t, in.Items[0].Size)
}

func TestValidate_OptionalAttributes(t *testing.T) {
	in, err := Validate(CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{{"product_id": "p1", "size": "M", "color": "Navy"}},
	})
	require.NoError(t, err)
	require.NotNil(t, in.Items[0].Size)
	assert.Equal(t, "M", *in.Items[0].Size)
	assert.Equal(t, "Navy", *in.Items[0].Color)
}

func TestValidate_RejectsMalformedNumbers(t *testing.T) {
	_, err := Validate(CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{
			{"product_id": "p1", "quantity": 1.5},
			{"product_id": "p2", "quantity": "two"},
			{"product_id": "p3", "price": "cheap"},
			{"product_id": "p4", "price": true},
		},
	})
	fields := validationFields(t, err)

	assert.Equal(t, map[string]string{
		"items[0].quantity": "must be an integer",
		"items[1].quantity": "must be an integer",
		"items[2].price":    "must be a number",
		"items[3].price":    "must be a number",
	}, fields)
}

func TestValidate_RequiresEmailItemsAndProduct(t *testing.T) {
	_, err := Validate(CreateRequest{})
	fields := validationFields(t, err)
	assert.Equal(t, "is required", fields["email"])
	assert.Equal(t, "is required", fields["items"])

	_, err = Validate(CreateRequest{Email: "not-an-email", Items: []map[string]any{}})
	fields = validationFields(t, err)
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Contains(t, fields["items"], "at least 1")

	_, err = Validate(CreateRequest{Email: "a@b.com", Items: []map[string]any{{"quantity": 1.0}, {"product_id": 7.0}, nil}})
	fields = validationFields(t, err)
	assert.Equal(t, "is required", fields["items[0].product_id"])
	assert.Equal(t, "must be a string", fields["items[1].product_id"])
	assert.Equal(t, "is required", fields["items[2].product_id"])
}

// Quantities are not required to be positive and prices are not checked
// against the catalog; both are trusted as submitted.
func TestValidate_TrustsClientValues(t *testing.T) {
	in, err := Validate(CreateRequest{
		Email: "a@b.com",
		Items: []map[string]any{
			{"product_id": "p1", "quantity": 0.0, "price": 32.0},
			{"product_id": "p2", "quantity": -1.0, "price": 5.0},
			{"product_id": "p3", "quantity": 1.0, "price": 0.01},
		},
	})
	require.NoError(t, err)
	assert.True(t, in.Total.Equal(decimal.RequireFromString("-4.99")), in.Total.String())
}
