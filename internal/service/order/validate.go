package order

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"windstruck-api/internal/domain"
)

// CreateRequest is the order body as submitted. Items stay loosely typed so
// that field-level coercion errors can be reported.
type CreateRequest struct {
	Items []map[string]any `json:"items" validate:"required,min=1"`
	Email string           `json:"email" validate:"required,email"`
}

// CreateInput is a validated order ready to persist.
type CreateInput struct {
	Items []domain.LineItem
	Email string
	Total decimal.Decimal
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks req and coerces every item. Quantity defaults to 1 and must
// be an integer; price defaults to 0 and must be a number. Any failure yields
// a *domain.ValidationError and nothing is persisted.
func Validate(req CreateRequest) (CreateInput, error) {
	verr := &domain.ValidationError{}

	if err := validate.Struct(req); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return CreateInput{}, err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), msgForTag(fe))
		}
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	total := decimal.Zero
	for i, raw := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)

		productID, err := requiredString(raw["product_id"])
		if err != nil {
			verr.Add(prefix+"product_id", err.Error())
		}
		size, err := optionalString(raw["size"])
		if err != nil {
			verr.Add(prefix+"size", err.Error())
		}
		color, err := optionalString(raw["color"])
		if err != nil {
			verr.Add(prefix+"color", err.Error())
		}
		qty, err := coerceQuantity(raw["quantity"])
		if err != nil {
			verr.Add(prefix+"quantity", err.Error())
		}
		price, err := coercePrice(raw["price"])
		if err != nil {
			verr.Add(prefix+"price", err.Error())
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		items = append(items, domain.LineItem{
			ProductID: productID,
			Size:      size,
			Color:     color,
			Quantity:  qty,
			Price:     price.InexactFloat64(),
		})
	}

	if err := verr.OrNil(); err != nil {
		return CreateInput{}, err
	}
	return CreateInput{Items: items, Email: req.Email, Total: total}, nil
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must contain at least %s entry", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

func coerceQuantity(v any) (int, error) {
	switch q := v.(type) {
	case nil:
		return 1, nil
	case float64:
		if q != math.Trunc(q) || math.Abs(q) > math.MaxInt32 {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(q), nil
	case int:
		return q, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil {
			return 0, fmt.Errorf("must be an integer")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("must be an integer")
	}
}

func coercePrice(v any) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(p), nil
	case int:
		return decimal.NewFromInt(int64(p)), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return decimal.Zero, fmt.Errorf("must be a number")
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("must be a number")
	}
}

func requiredString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return "", fmt.Errorf("is required")
		}
		return "", fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("is required")
	}
	return s, nil
}

func optionalString(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string")
	}
	return &s, nil
}
