package services

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
)

// customerPhonePattern accepts a 10-digit Indian mobile number.
var customerPhonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// NormalizeCustomer trims every field and strips a leading +91 or 0 from the phone.
func NormalizeCustomer(c ledger.Customer) ledger.Customer {
	phone := strings.ReplaceAll(strings.TrimSpace(c.Phone), " ", "")
	phone = strings.TrimPrefix(phone, "+91")
	if len(phone) == 11 {
		phone = strings.TrimPrefix(phone, "0")
	}
	return ledger.Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   phone,
		Email:   strings.TrimSpace(c.Email),
		Address: strings.TrimSpace(c.Address),
	}
}

// ValidateCustomer checks the customer block of a quotation. The returned
// error is a validation.Errors keyed by the JSON field name.
func ValidateCustomer(c ledger.Customer) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required.Error("customer name is required")),
		validation.Field(&c.Phone,
			validation.Required.Error("phone number is required"),
			validation.Match(customerPhonePattern).Error("enter a valid 10-digit mobile number"),
		),
		validation.Field(&c.Email, is.EmailFormat.Error("enter a valid email address")),
	)
}

// UpsertCustomer creates or updates the customer record matching c.Phone.
// c must already be normalized and valid.
func UpsertCustomer(app core.App, c ledger.Customer) (*core.Record, error) {
	record, err := app.FindFirstRecordByFilter("customers", "phone = {:phone}", map[string]any{"phone": c.Phone})
	if err != nil {
		col, colErr := app.FindCollectionByNameOrId("customers")
		if colErr != nil {
			return nil, fmt.Errorf("customer: find collection: %w", colErr)
		}
		record = core.NewRecord(col)
		record.Set("phone", c.Phone)
	}

	record.Set("name", c.Name)
	if c.Email != "" {
		record.Set("email", c.Email)
	}
	if c.Address != "" {
		record.Set("address", c.Address)
	}

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("customer: save %s: %w", c.Phone, err)
	}
	return record, nil
}
