package handlers

import (
	"fmt"
	"reflect"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs the custom binding rules on gin's validator.
// positive_amount accepts decimals the ledger can store: above zero, at most four decimal
// places, no larger than domain.MaxAmount.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	return v.RegisterValidation("positive_amount", positiveAmount)
}

func positiveAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return domain.ValidateAmount(d) == nil
}
