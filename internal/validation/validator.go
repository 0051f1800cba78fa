package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	apperrors "mesto/internal/errors"
	"mesto/internal/repository"
)

// LinkPattern matches the http(s) URLs accepted for card links and avatars.
var LinkPattern = regexp.MustCompile(`^((http|https):\/\/)(www\.)?([a-zA-z0-9.-]+)\.([a-zA-z]+)([a-zA-z0-9%$?/.-]+)?(#)?$`)

// Validator wraps validator.v10 for Echo and reports failures as BadRequest
// errors listing every violated constraint.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with the "link" and "objectid" rules and English messages.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON/param names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("link", func(fl validator.FieldLevel) bool {
		return LinkPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return repository.ValidID(fl.Field().String())
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)
	registerTranslation(v, trans, "link", "{0} must be a valid http(s) link")
	registerTranslation(v, trans, "objectid", "{0} must be a 24-character hexadecimal identifier")

	return &Validator{validate: v, trans: trans}
}

func registerTranslation(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.BadRequest(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	return apperrors.Wrap(err, apperrors.KindBadRequest, "validation failed: "+strings.Join(msgs, "; "))
}
