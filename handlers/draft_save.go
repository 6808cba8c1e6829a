package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
	"quotationdesk/services"
)

// HandleDraftSave persists the draft as a quotation and discards it. New
// quotations get the next number in the current fiscal year; an editing
// draft rewrites the quotation it was opened from. Price and GST edits are
// staged as temp overrides. A draft is saved at most once; a concurrent save
// is rejected with 409 and a failed save can be retried.
func HandleDraftSave(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")

		var req services.SaveRequest
		err := desk.Drafts.BeginSave(id, func(s *ledger.Session) error {
			req = services.SaveRequest{
				Payload: s.Ledger.Payload(ledger.PayloadMeta{
					QuotationID: s.QuotationID,
					Customer:    s.Customer,
					CreatedBy:   s.CreatedBy,
				}),
				Update:    s.Mode == ledger.ModeEditing,
				Overrides: s.Ledger.Overrides(),
			}
			return nil
		})
		if err != nil {
			return FailWith(e, "draft_save: HandleDraftSave", err)
		}

		user := GetCurrentUser(e.Request)
		req.User = user
		req.Prefix = desk.Config.QuotationPrefix
		req.Now = desk.now()

		result, err := services.SaveQuotation(app, req)
		if err != nil {
			desk.Drafts.EndSave(id)
			return FailWith(e, "draft_save: HandleDraftSave", err)
		}

		if err := desk.Drafts.Discard(id); err != nil {
			log.Printf("draft_save: HandleDraftSave: draft %s already gone: %v", id, err)
		}
		log.Printf("draft_save: HandleDraftSave: %s saved %s (%d items)", user, result.Payload.QuotationID, len(result.Payload.Items))

		status := http.StatusCreated
		message := "Quotation " + result.Payload.QuotationID + " created"
		if req.Update {
			status = http.StatusOK
			message = "Quotation " + result.Payload.QuotationID + " updated"
		}
		SetToast(e, "success", message)
		return e.JSON(status, result.Payload)
	}
}

// HandleDraftPreviewPDF renders the unsaved draft as a PDF.
func HandleDraftPreviewPDF(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, err := desk.snapshot(e.Request.PathValue("id"))
		if err != nil {
			return FailWith(e, "draft_save: HandleDraftPreviewPDF", err)
		}

		doc := services.DocumentFromSession(app, snap, desk.documentOptions(), desk.now())
		return writeQuotationPDF(e, desk, doc, "inline")
	}
}
