package service

import (
	"errors"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"github.com/go-playground/validator/v10"
)

const modelName = "Product"

// productValidator turns validator failures into a *ValidationError
// naming the offending JSON paths in declaration order.
type productValidator struct {
	v *validator.Validate
}

func newProductValidator() *productValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &productValidator{v: v}
}

func (p *productValidator) Struct(s any) error {
	err := p.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &perrors.ValidationError{Model: modelName}
	for _, fe := range fieldErrs {
		// An empty value breaks both the required and min=1 rules, both report as required.
		verr.Fields = append(verr.Fields, perrors.RequiredField(fe.Field()))
	}
	return verr
}
