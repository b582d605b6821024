package core

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input schemas for every mutating operation. Each is normalized and then
// validated as a whole before storage is touched.
type (
	CreateRepresentativeInput struct {
		Name           string  `json:"name" validate:"required"`
		CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
	}

	CreateCustomerInput struct {
		Name  string `json:"name" validate:"required"`
		Phone string `json:"phone"`
	}

	CreateSaleInput struct {
		RepresentativeID int64   `json:"representative_id" validate:"required,gt=0"`
		CustomerID       int64   `json:"customer_id" validate:"required,gt=0"`
		Value            float64 `json:"value" validate:"gt=0"`
		// Date defaults to today when zero.
		Date Date `json:"date" validate:"-"`
		// CommissionRate overrides the representative's default rate when set.
		CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	}

	UpdateSaleInput struct {
		Value          float64 `json:"value" validate:"gt=0"`
		CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (in *CreateRepresentativeInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (in CreateRepresentativeInput) Validate() error {
	return validateStruct(in)
}

func (in *CreateCustomerInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
}

func (in CreateCustomerInput) Validate() error {
	return validateStruct(in)
}

func (in CreateSaleInput) Validate() error {
	return validateStruct(in)
}

func (in UpdateSaleInput) Validate() error {
	return validateStruct(in)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	v := Violations{}
	for _, fe := range verrs {
		v[fe.Field()] = describe(fe)
	}
	return NewValidationError(v)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
