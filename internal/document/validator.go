package document

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const (
	// TagIndividualID validates individual identifiers
	TagIndividualID = "cpf"
	// TagOrganizationID validates organization identifiers
	TagOrganizationID = "cnpj"
	// TagPostalCode validates postal codes in NNNNN-NNN form
	TagPostalCode = "cep"
)

var postalCodeRegexp = regexp.MustCompile(`^\d{5}-\d{3}$`)

var tagMessages = map[string]string{
	TagIndividualID:   "{0} must be a valid individual identifier",
	TagOrganizationID: "{0} must be a valid organization identifier",
	TagPostalCode:     "{0} must follow the 00000-000 format",
}

// RegisterValidations binds document tags to the validator
func RegisterValidations(v *validator.Validate) error {
	validations := map[string]validator.Func{
		TagIndividualID: func(fl validator.FieldLevel) bool {
			return ValidIndividualID(fl.Field().String())
		},
		TagOrganizationID: func(fl validator.FieldLevel) bool {
			return ValidOrganizationID(fl.Field().String())
		},
		TagPostalCode: func(fl validator.FieldLevel) bool {
			return postalCodeRegexp.MatchString(fl.Field().String())
		},
	}

	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTranslations adds messages for document tags to the translator
func RegisterTranslations(v *validator.Validate, trans ut.Translator) error {
	for tag, msg := range tagMessages {
		tag, msg := tag, msg
		register := func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}
		translate := func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return t
		}

		if err := v.RegisterTranslation(tag, trans, register, translate); err != nil {
			return err
		}
	}
	return nil
}
