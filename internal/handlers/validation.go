package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxDecimalPlaces matches the numeric(12,2) stock columns.
const maxDecimalPlaces = 2

// newValidator reports fields by their JSON name so errors match the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("decimal2", validateDecimalPlaces)
	return v
}

// validateDecimalPlaces rejects numbers the stock columns would have to round.
func validateDecimalPlaces(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(fl.Field().Float()).Exponent() >= -maxDecimalPlaces
	}
	return true
}

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func validationErrors(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := FieldErrors{}
	for _, e := range verrs {
		out[e.Field()] = append(out[e.Field()], fieldMessage(e))
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", e.Field())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("O campo %s não pode ter mais de %s caracteres.", e.Field(), e.Param())
		}
		return fmt.Sprintf("O campo %s não pode ser maior que %s.", e.Field(), e.Param())
	case "gte", "min":
		return fmt.Sprintf("O campo %s deve ser pelo menos %s.", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("O campo %s deve ser maior que %s.", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("O campo %s selecionado é inválido.", e.Field())
	case "decimal2":
		return fmt.Sprintf("O campo %s deve ter no máximo 2 casas decimais.", e.Field())
	case "datetime":
		return fmt.Sprintf("O campo %s deve ser uma data no formato AAAA-MM-DD.", e.Field())
	}
	return fmt.Sprintf("O campo %s é inválido.", e.Field())
}

// bodyErrors turns a JSON decoding failure into field errors when the decoder names the
// offending field, e.g. a string sent for a numeric field.
func bodyErrors(err error) FieldErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		var msg string
		switch typeErr.Type.Kind() {
		case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
			msg = fmt.Sprintf("O campo %s deve ser um número.", typeErr.Field)
		default:
			msg = fmt.Sprintf("O campo %s deve ser um texto.", typeErr.Field)
		}
		return FieldErrors{typeErr.Field: {msg}}
	}
	return FieldErrors{"body": {"Corpo da requisição inválido."}}
}
