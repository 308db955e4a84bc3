package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/domain"
)

var holderNamePattern = regexp.MustCompile(`^[\p{L} .'-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Titular: letras (con acentos), espacios, punto, apóstrofo y guion.
	_ = v.RegisterValidation("holdername", func(fl validator.FieldLevel) bool {
		return holderNamePattern.MatchString(fl.Field().String())
	})
	return v
}

type normalizer interface {
	Normalize()
}

// bindBody parsea el JSON del cuerpo en dst y valida sus tags.
func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Errorf(domain.ErrInvalidInput, "cuerpo inválido: %v", err)
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validateStruct(dst)
}

// bindOptionalBody como bindBody pero acepta un cuerpo vacío.
func bindOptionalBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return bindBody(c, dst)
}

// bindQuery parsea la query string en dst y valida sus tags.
func bindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return domain.Errorf(domain.ErrInvalidInput, "parámetros inválidos: %v", err)
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, domain.FieldError{Field: fieldPath(fe.Namespace()), Message: fieldMessage(fe)})
	}
	return domain.ValidationError("datos de entrada inválidos", details...)
}

// fieldPath "CreateOrderRequest.TripDetailsRequest.clientName" → "clientName";
// los segmentos que empiezan por mayúscula son nombres de struct de Go.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := parts[:0]
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		if r := []rune(p)[0]; unicode.IsUpper(r) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return namespace
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("no puede superar %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual que %s", fe.Param())
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "fecha inválida, formato YYYY-MM-DD"
	case "alphanum":
		return "solo puede contener letras y números"
	case "holdername":
		return "solo puede contener letras, espacios y . ' -"
	case "nefield":
		return "debe ser distinto de la contraseña actual"
	}
	return fmt.Sprintf("no es válido (%s)", fe.Tag())
}
