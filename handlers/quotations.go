package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
	"quotationdesk/services"
)

// HandleQuotationCreate persists a quotation payload. Client-sent totals are
// ignored and recomputed from the items. A blank quotationId is assigned the
// next number of the current fiscal year.
func HandleQuotationCreate(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload ledger.Payload
		if err := e.BindBody(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid quotation payload")
		}

		result, err := services.SaveQuotation(app, services.SaveRequest{
			Payload: payload,
			User:    GetCurrentUser(e.Request),
			Prefix:  desk.Config.QuotationPrefix,
			Now:     desk.now(),
		})
		if err != nil {
			return FailWith(e, "quotations: HandleQuotationCreate", err)
		}

		SetToast(e, "success", "Quotation "+result.Payload.QuotationID+" created")
		return e.JSON(http.StatusCreated, result.Payload)
	}
}

// HandleQuotationUpdate rewrites the quotation named by the {id} path value.
// The path value wins over any quotationId in the body.
func HandleQuotationUpdate(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload ledger.Payload
		if err := e.BindBody(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid quotation payload")
		}
		payload.QuotationID = e.Request.PathValue("id")

		result, err := services.SaveQuotation(app, services.SaveRequest{
			Payload: payload,
			Update:  true,
			User:    GetCurrentUser(e.Request),
			Prefix:  desk.Config.QuotationPrefix,
			Now:     desk.now(),
		})
		if err != nil {
			return FailWith(e, "quotations: HandleQuotationUpdate", err)
		}

		SetToast(e, "success", "Quotation "+result.Payload.QuotationID+" updated")
		return e.JSON(http.StatusOK, result.Payload)
	}
}
