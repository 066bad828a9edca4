package domain

import (
	"errors"
	"reflect"
	"strings"

	"garagepro/internal/domain/payments"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps "<field>.<tag>" to the user-facing message shown by the entry forms
var messages = map[string]string{
	"name.min":                     "Name must be at least 2 characters",
	"mobile.min":                   "Mobile number is required",
	"email.email":                  "Invalid email address",
	"customerId.required":          "Customer is required",
	"make.required":                "Make is required",
	"model.required":               "Model is required",
	"year.len":                     "Year must be 4 digits",
	"year.numeric":                 "Year must be 4 digits",
	"registrationNumber.required":  "Registration number is required",
	"partName.required":            "Part name is required",
	"stockQuantity.gte":            "Stock quantity must be a positive number",
	"lowStockThreshold.gte":        "Threshold must be a positive number",
	"lastOdometerReading.gte":      "Odometer reading must be a positive number",
	"vehicleId.required":           "Vehicle is required",
	"odometerReadingAtService.gte": "Odometer reading must be a positive number",
	"serviceDescription.required":  "Service description is required",
}

// Validate checks v against its struct tags and returns ValidationErrors on failure
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must be a positive number"
	}
	return fe.Field() + " is invalid"
}

// checkNonNegative appends a validation error when amount is below zero
func checkNonNegative(errs ValidationErrors, field, message string, amount decimal.Decimal) ValidationErrors {
	if amount.IsNegative() {
		errs = append(errs, &ValidationError{Field: field, Message: message})
	}
	return errs
}

func merge(err error, extra ValidationErrors) error {
	if len(extra) == 0 {
		return err
	}
	if err == nil {
		return extra
	}
	var existing ValidationErrors
	if errors.As(err, &existing) {
		return append(existing, extra...)
	}
	return err
}

// ValidateCustomer checks a customer record before it is stored
func ValidateCustomer(c *Customer) error {
	return Validate(c)
}

// ValidateVehicle checks a vehicle record before it is stored
func ValidateVehicle(v *Vehicle) error {
	return Validate(v)
}

// ValidateInventoryItem checks an inventory item before it is stored
func ValidateInventoryItem(i *InventoryItem) error {
	var extra ValidationErrors
	extra = checkNonNegative(extra, "purchasePrice", "Purchase price must be a positive number", i.PurchasePrice)
	extra = checkNonNegative(extra, "sellingPrice", "Selling price must be a positive number", i.SellingPrice)
	return merge(Validate(i), extra)
}

// ValidateService checks a catalog service before it is stored
func ValidateService(s *Service) error {
	var extra ValidationErrors
	extra = checkNonNegative(extra, "price", "Price must be a positive number", s.Price)
	return merge(Validate(s), extra)
}

// ValidateMechanic checks a mechanic record before it is stored
func ValidateMechanic(m *Mechanic) error {
	return Validate(m)
}

// ValidateServiceLines checks job card service lines
func ValidateServiceLines(lines []ServiceLine) error {
	var errs ValidationErrors
	for i := range lines {
		if err := Validate(&lines[i]); err != nil {
			var ve ValidationErrors
			if errors.As(err, &ve) {
				errs = append(errs, ve...)
				continue
			}
			return err
		}
		errs = checkNonNegative(errs, "serviceCost", "Service cost must be a positive number", lines[i].Cost)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateJobCard checks a job card before it is stored
func ValidateJobCard(jc *JobCard) error {
	var errs ValidationErrors
	if err := Validate(jc); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	for _, check := range []error{ValidateStatus(jc.Status, jc.PaymentStatus), ValidateServiceLines(jc.Services)} {
		var more ValidationErrors
		if errors.As(check, &more) {
			errs = append(errs, more...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateStatus checks the work and payment status values of a job card
func ValidateStatus(status JobStatus, payment payments.Status) error {
	var errs ValidationErrors
	if !status.Valid() {
		errs = append(errs, &ValidationError{Field: "status", Message: "Unknown status"})
	}
	if !payment.Valid() {
		errs = append(errs, &ValidationError{Field: "paymentStatus", Message: "Unknown payment status"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
