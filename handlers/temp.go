package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleTempList returns staged price/GST overrides in the order they were
// written, optionally filtered by ?quotation=.
func HandleTempList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotationID := strings.TrimSpace(e.Request.URL.Query().Get("quotation"))

		overrides, err := services.ListOverrides(app, quotationID)
		if err != nil {
			return FailWith(e, "temp: HandleTempList", err)
		}
		return e.JSON(http.StatusOK, overrides)
	}
}
