package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"boleteria/common"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator checks request values before they reach the repository.
type Validator interface {
	ValidateInput(input *TicketInput) error
	ValidateQuantity(quantity int) error
	NormalizePage(page PageRequest) (PageRequest, error)
	ParseFilter(query FilterQuery, requireSeller bool) (TicketFilter, error)
}

type requestValidator struct {
	validate *validator.Validate
}

// NewValidator reads the same `binding` tags gin checks, so callers that
// skip the HTTP layer (the seed command) get the same rules.
func NewValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &requestValidator{validate: v}
}

var maxPrice = decimal.New(1, 10)

// ValidateInput checks binding tags plus the price and status rules
func (v *requestValidator) ValidateInput(input *TicketInput) error {
	if input == nil {
		return fmt.Errorf("%w: ticket is required", common.ErrInvalidArgument)
	}
	if err := v.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", common.ErrInvalidArgument, describe(err))
	}
	if !input.TotalPrice.IsPositive() {
		return fmt.Errorf("%w: total_price must be greater than zero", common.ErrInvalidArgument)
	}
	// the column is decimal(12,2)
	if input.TotalPrice.Exponent() < -2 && !input.TotalPrice.Equal(input.TotalPrice.Truncate(2)) {
		return fmt.Errorf("%w: total_price allows at most two decimals, got %s", common.ErrInvalidArgument, input.TotalPrice)
	}
	if input.TotalPrice.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: total_price must be below %s, got %s", common.ErrInvalidArgument, maxPrice, input.TotalPrice)
	}
	if input.Status != nil && !input.Status.Valid() {
		return fmt.Errorf("%w: unknown ticket status %q", common.ErrInvalidArgument, *input.Status)
	}
	return nil
}

// ValidateQuantity requires at least one ticket
func (v *requestValidator) ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1, got %d", common.ErrInvalidArgument, quantity)
	}
	return nil
}

// NormalizePage applies the default size and rejects out-of-range values.
func (v *requestValidator) NormalizePage(page PageRequest) (PageRequest, error) {
	if page.Size == 0 {
		page.Size = DefaultPageSize
	}
	if page.Page < 0 {
		return page, fmt.Errorf("%w: page must be >= 0, got %d", common.ErrInvalidArgument, page.Page)
	}
	if page.Size < 1 || page.Size > MaxPageSize {
		return page, fmt.Errorf("%w: size must be between 1 and %d, got %d", common.ErrInvalidArgument, MaxPageSize, page.Size)
	}
	return page, nil
}

// ParseFilter resolves the field alias and requires a value (and a seller when requireSeller is set)
func (v *requestValidator) ParseFilter(query FilterQuery, requireSeller bool) (TicketFilter, error) {
	field, ok := searchColumns[strings.ToLower(strings.TrimSpace(query.Field))]
	if !ok {
		return TicketFilter{}, fmt.Errorf("%w: field '%s' is not searchable", common.ErrInvalidArgument, query.Field)
	}
	if strings.TrimSpace(query.Value) == "" {
		return TicketFilter{}, fmt.Errorf("%w: value is required", common.ErrInvalidArgument)
	}
	if requireSeller && strings.TrimSpace(query.SellerName) == "" {
		return TicketFilter{}, fmt.Errorf("%w: seller is required", common.ErrInvalidArgument)
	}
	return TicketFilter{
		Field:      field,
		Value:      strings.TrimSpace(query.Value),
		SellerName: strings.TrimSpace(query.SellerName),
	}, nil
}

// describe flattens validator errors into "field: rule" pairs.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
