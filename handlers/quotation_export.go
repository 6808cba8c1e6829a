package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleQuotationPDF returns a handler that generates and downloads the PDF of
// a stored quotation.
func HandleQuotationPDF(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.BuildQuotationDocument(app, e.Request.PathValue("id"), desk.documentOptions())
		if err != nil {
			return FailWith(e, "quotation_export: HandleQuotationPDF", err)
		}
		return writeQuotationPDF(e, desk, doc, "attachment")
	}
}

// HandleQuotationPagesHTML returns the per-page markup blocks of a stored
// quotation, one <section> per planned page.
func HandleQuotationPagesHTML(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.BuildQuotationDocument(app, e.Request.PathValue("id"), desk.documentOptions())
		if err != nil {
			return FailWith(e, "quotation_export: HandleQuotationPagesHTML", err)
		}

		blocks, err := services.RenderQuotationPages(e.Request.Context(), doc, desk.renderOptions(nil))
		if err != nil {
			return FailWith(e, "quotation_export: HandleQuotationPagesHTML", err)
		}
		return e.HTML(http.StatusOK, strings.Join(blocks, "\n"))
	}
}

// HandleQuotationExcel returns a handler that downloads a stored quotation as xlsx.
func HandleQuotationExcel(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.BuildQuotationDocument(app, e.Request.PathValue("id"), desk.documentOptions())
		if err != nil {
			return FailWith(e, "quotation_export: HandleQuotationExcel", err)
		}

		data, err := services.GenerateQuotationExcel(doc)
		if err != nil {
			log.Printf("quotation_export: failed to generate Excel for %s: %v", doc.QuotationID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel")
		}

		filename := fmt.Sprintf("%s.xlsx", services.SanitizeFilename(doc.QuotationID))
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return e.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}

// writeQuotationPDF fetches the company logo, renders doc and writes the PDF
// with the given Content-Disposition type.
func writeQuotationPDF(e *core.RequestEvent, desk *Desk, doc *services.QuotationDocument, disposition string) error {
	logo := services.LoadLogo(e.Request.Context(), doc.Company.LogoURL, desk.Config.ImageTimeout)

	pdfBytes, err := services.GenerateQuotationPDF(doc, desk.renderOptions(logo))
	if err != nil {
		return FailWith(e, "quotation_export: writeQuotationPDF", err)
	}

	filename := fmt.Sprintf("%s.pdf", services.SanitizeFilename(doc.QuotationID))
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	return e.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
