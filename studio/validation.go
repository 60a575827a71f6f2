package studio

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LIMITS
// =============================================================================

var (
	MinPaymentAmount = decimal.NewFromInt(1)
	MaxPaymentAmount = decimal.NewFromInt(999_999)
)

const MaxRemarksLength = 200

// =============================================================================
// INPUTS - What a caller submits before a record exists
// =============================================================================

// StaffPaymentInput is a proposed staff ledger entry.
type StaffPaymentInput struct {
	StaffID string          `json:"staff_id" validate:"required"`
	EventID string          `json:"event_id"`
	Type    string          `json:"type" validate:"required,oneof=agreed made"`
	Amount  decimal.Decimal `json:"amount" validate:"gte=1,lte=999999"`
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Method  string          `json:"method" validate:"omitempty,oneof=cash bank_transfer upi cheque"`
	Remarks string          `json:"remarks" validate:"max=200"`
}

// ClientPaymentInput is a proposed client ledger entry.
type ClientPaymentInput struct {
	BookingID string          `json:"booking_id" validate:"required"`
	Status    string          `json:"status" validate:"required,oneof=agreed received"`
	Amount    decimal.Decimal `json:"amount" validate:"gte=1,lte=999999"`
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
}

// =============================================================================
// VALIDATOR
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStaffPayment checks a staff payment before it is recorded.
// today anchors the one-year future limit on the payment date.
func ValidateStaffPayment(in StaffPaymentInput, today Date) error {
	errs := structErrors(in)
	if StaffPaymentType(in.Type) == StaffMade && strings.TrimSpace(in.Method) == "" {
		errs = append(errs, FieldError{Field: "method", Reason: "is required for payments made"})
	}
	errs = append(errs, futureDateErrors(in.Date, today)...)
	if len(errs) > 0 {
		return errs.sorted()
	}
	return nil
}

// ValidateClientPayment checks a client payment before it is recorded.
func ValidateClientPayment(in ClientPaymentInput, today Date) error {
	errs := structErrors(in)
	errs = append(errs, futureDateErrors(in.Date, today)...)
	if len(errs) > 0 {
		return errs.sorted()
	}
	return nil
}

// ValidateAmount checks a single amount against the payment range.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinPaymentAmount) || amount.GreaterThan(MaxPaymentAmount) {
		return ValidationErrors{{Field: "amount", Reason: amountReason}}
	}
	return nil
}

const amountReason = "must be between 1 and 999,999"

func structErrors(in any) ValidationErrors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "input", Reason: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Reason: reasonFor(fe)})
	}
	return out
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a YYYY-MM-DD date"
	case "gte", "lte":
		return amountReason
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid (" + fe.Tag() + ")"
}

// futureDateErrors rejects dates more than one year after today. Format
// problems are already reported by the struct validator.
func futureDateErrors(raw string, today Date) ValidationErrors {
	d := NormalizeDate(raw)
	if d.IsZero() || today.IsZero() {
		return nil
	}
	if d.After(today.AddYears(1)) {
		return ValidationErrors{{Field: "date", Reason: "must not be more than one year in the future"}}
	}
	return nil
}
