package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
	"quotationdesk/services"
)

// SetToast sets the HX-Trigger response header so the dashboard shows a toast.
// If an HX-Trigger header already exists, the toast payload is merged into
// the existing JSON object.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = map[string]string{
		"message": message,
		"type":    toastType,
	}

	data, err := json.Marshal(trigger)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// ErrorToast reports an operation-level failure: an error toast plus a JSON
// body {"error": message} with the given status.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	return e.JSON(statusCode, map[string]string{"error": message})
}

// FailWith maps a service error to its HTTP status and reports it through
// ErrorToast. Customer validation errors carry the per-field messages.
func FailWith(e *core.RequestEvent, logPrefix string, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		SetToast(e, "error", "Please correct the customer details")
		return e.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":  "invalid customer",
			"fields": verrs,
		})
	case errors.Is(err, ledger.ErrDraftNotFound):
		return ErrorToast(e, http.StatusNotFound, "Draft not found or expired")
	case errors.Is(err, ledger.ErrDraftSaving):
		return ErrorToast(e, http.StatusConflict, "Draft is already being saved")
	case errors.Is(err, services.ErrQuotationNotFound):
		return ErrorToast(e, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, services.ErrCatalogItemNotFound):
		return ErrorToast(e, http.StatusNotFound, "Product not found in catalog")
	case errors.Is(err, services.ErrQuotationExists):
		return ErrorToast(e, http.StatusConflict, "A quotation with this number already exists")
	case errors.Is(err, services.ErrPageRender):
		log.Printf("%s: %v", logPrefix, err)
		return ErrorToast(e, http.StatusInternalServerError, "Failed to generate the document")
	default:
		log.Printf("%s: %v", logPrefix, err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong")
	}
}
