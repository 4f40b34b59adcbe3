package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	NotBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	EmailLiteTag   = "email_lite"
	emailLiteText  = "Please enter a valid email address"
	emailLiteRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	IntlPhoneTag   = "intl_phone"
	intlPhoneText  = "Please enter a valid phone number"
	intlPhoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	requiredTag  = "required"
	requiredText = "this field is required"
)

// NewValidator returns a validator with the english translations and the custom validators registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	return validate, translator
}

func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(NotBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, NotBlankTag, notBlankText)

	_ = validate.RegisterValidation(EmailLiteTag, emailLiteValidation)
	RegisterCustomTranslation(validate, translator, EmailLiteTag, emailLiteText)

	_ = validate.RegisterValidation(IntlPhoneTag, intlPhoneValidation)
	RegisterCustomTranslation(validate, translator, IntlPhoneTag, intlPhoneText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateErrors maps validator.ValidationErrors to field errors.
func TranslateErrors(errs validator.ValidationErrors, translator ut.Translator) []FieldError {
	flds := make([]FieldError, 0, len(errs))
	for _, vErr := range errs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return flds
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// emailLiteValidation is a permissive "something@something.tld" check.
func emailLiteValidation(fl validator.FieldLevel) bool {
	return emailLiteRegex.MatchString(fl.Field().String())
}

// intlPhoneValidation accepts international dialing numbers; whitespace is ignored.
func intlPhoneValidation(fl validator.FieldLevel) bool {
	return intlPhoneRegex.MatchString(StripSpaces(fl.Field().String()))
}
