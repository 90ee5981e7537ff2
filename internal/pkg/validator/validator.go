package validator

import (
	"regexp"

	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	tokenRegexp = regexp.MustCompile(`^[\x21-\x7E]{0,255}$`)
)

var (
	uni   = ut.New(en.New())
	trans ut.Translator
)

func init() {
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, trans)

	_ = Validate.RegisterTranslation("token", trans, func(ut ut.Translator) error {
		return ut.Add("token", "{0} must be at most 255 printable characters without spaces", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("token", fe.Field())
		return t
	})
}

var Validate = New()

func New() *validator.Validate {

	validate := validator.New()

	_ = validate.RegisterValidation("token", token)

	return validate
}

func token(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return tokenRegexp.MatchString(val)
}

type ValidationError struct {
	Field     string `json:"field"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func convertValidationErrors(ves validator.ValidationErrors) []*ValidationError {

	errors := make([]*ValidationError, 0, len(ves))

	for _, fe := range ves {

		errors = append(errors, &ValidationError{
			Field:     fe.Field(),
			Violation: fe.Tag(),
			Message:   fe.Translate(trans),
		})
	}

	return errors
}

func ValidateBody(c *fiber.Ctx, dest any) error {

	if err := c.BodyParser(dest); err != nil {
		return errs.ErrInvalidParams.Wrap(err)
	}

	if err := Validate.Struct(dest); err != nil {

		ves, ok := err.(validator.ValidationErrors)
		if !ok {
			return errs.ErrInvalidParams.Wrap(err)
		}

		return errs.ErrInvalidParams.WithDetails(fiber.Map{
			"violations": convertValidationErrors(ves),
		})
	}

	return nil
}
