package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/talkincode/tradecatalog/config"
	"github.com/talkincode/tradecatalog/internal/domain"
)

var (
	minSymbolPrice = decimal.RequireFromString("0.01")
	// 13 integer digits plus 2 decimals stay exact when sqlite stores the
	// column as REAL
	maxPrice = decimal.New(1, 13)
)

// textRules carries the tag checked text fields after trimming
type textRules struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=2000"`
	Category    string  `json:"category" validate:"required,max=50"`
	Symbol      string  `json:"symbol" validate:"max=32"`
	Status      *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
}

// cleanInput is a validated, trimmed ProductInput
type cleanInput struct {
	name        string
	description string
	price       decimal.Decimal
	quantity    int
	category    string
	symbol      *string
	status      *string
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput applies the rules of the active profile.
// All failures are collected into one *domain.ValidationError.
func (s *ProductService) validateInput(in ProductInput) (*cleanInput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSpace(in.ProductName)
	}
	rules := textRules{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Symbol:      strings.TrimSpace(in.Symbol),
	}
	if s.profile == config.ProfileStatus && in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		st := strings.TrimSpace(*in.Status)
		rules.Status = &st
	}

	verr := &domain.ValidationError{}
	if err := s.validate.Struct(rules); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	}

	if s.profile == config.ProfileSymbol && rules.Symbol == "" {
		verr.Add("symbol", "is required")
	}

	switch {
	case in.Price == nil:
		verr.Add("price", "is required")
	case s.profile == config.ProfileSymbol && in.Price.LessThan(minSymbolPrice):
		verr.Add("price", "must be at least 0.01")
	case s.profile == config.ProfileStatus && !in.Price.IsPositive():
		verr.Add("price", "must be greater than 0")
	case !in.Price.Equal(in.Price.Truncate(2)):
		verr.Add("price", "must have at most 2 decimal places")
	case in.Price.GreaterThanOrEqual(maxPrice):
		verr.Add("price", "is too large")
	}

	switch {
	case in.Quantity == nil:
		verr.Add("quantity", "is required")
	case s.profile == config.ProfileSymbol && *in.Quantity < 0:
		verr.Add("quantity", "must not be negative")
	case s.profile == config.ProfileStatus && *in.Quantity <= 0:
		verr.Add("quantity", "must be greater than 0")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &cleanInput{
		name:        rules.Name,
		description: rules.Description,
		price:       *in.Price,
		quantity:    *in.Quantity,
		category:    rules.Category,
		symbol:      domain.NormalizeSymbol(rules.Symbol),
		status:      rules.Status,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.Join(domain.Statuses, ", ")
	default:
		return "is invalid"
	}
}
