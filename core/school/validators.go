package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/prathomik/sheba/core"
)

var (
	planTag  = "plan"
	planText = "invalid subscription plan"
)

// InitValidators registers the school package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(planTag, planValidation)
	core.RegisterCustomTranslation(validate, translator, planTag, planText)
}

// planValidation checks that the provided plan is a known SubscriptionPlan.
func planValidation(fl validator.FieldLevel) bool {
	plan := SubscriptionPlan(fl.Field().String())
	for _, p := range AllPlans {
		if plan == p {
			return true
		}
	}
	return false
}
