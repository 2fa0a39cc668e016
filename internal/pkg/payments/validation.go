package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// AddPaymentMethodForm is the card form as submitted by the user. Validation
// is purely client-side business rules; nothing here ever reaches an
// external processor.
type AddPaymentMethodForm struct {
	CardNumber     string `json:"card_number" validate:"required"`
	ExpiryMonth    int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" validate:"required"`
	CVC            string `json:"cvc" validate:"required,min=3,max=4,numeric"`
	CardholderName string `json:"cardholder_name" validate:"required"`
	IsDefault      bool   `json:"is_default"`
}

// ValidationError carries per-field messages for inline display.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid payment method: " + strings.Join(parts, ", ")
}

var validate = validator.New()

// Validate returns a per-field error map, empty when the form is valid.
// Card numbers are checked after stripping spaces: 13 to 19 digits, both
// bounds inclusive. Expiry years are accepted from the current year up to
// ten years ahead.
func (f AddPaymentMethodForm) Validate() map[string]string {
	errs := make(map[string]string)

	if err := validate.Struct(f); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				switch fe.StructField() {
				case "CardNumber":
					errs["card_number"] = "Número de tarjeta inválido"
				case "ExpiryMonth":
					errs["expiry_month"] = "Mes inválido"
				case "ExpiryYear":
					errs["expiry_year"] = "Año inválido"
				case "CVC":
					errs["cvc"] = "CVC inválido"
				case "CardholderName":
					errs["cardholder_name"] = "Nombre del titular requerido"
				}
			}
		} else {
			errs["form"] = err.Error()
		}
	}

	clean := strings.ReplaceAll(f.CardNumber, " ", "")
	if _, ok := errs["card_number"]; !ok {
		if !isDigits(clean) || len(clean) < 13 || len(clean) > 19 {
			errs["card_number"] = "Número de tarjeta inválido"
		}
	}

	if _, ok := errs["expiry_year"]; !ok {
		currentYear := time.Now().Year()
		if f.ExpiryYear < currentYear || f.ExpiryYear > currentYear+10 {
			errs["expiry_year"] = "Año inválido"
		}
	}

	if strings.TrimSpace(f.CardholderName) == "" {
		errs["cardholder_name"] = "Nombre del titular requerido"
	}

	return errs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatCardNumber groups digits in blocks of four for display.
func FormatCardNumber(raw string) string {
	clean := strings.ReplaceAll(raw, " ", "")
	var b strings.Builder
	for i, r := range clean {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%c", r)
	}
	return b.String()
}
