package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/services"
)

// HandleCatalogList returns the catalog in display order: configured category
// priority first, then product name.
func HandleCatalogList(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entries, err := services.ListCatalog(app, desk.Config.CategoryOrder)
		if err != nil {
			return FailWith(e, "catalog: HandleCatalogList", err)
		}
		return e.JSON(http.StatusOK, entries)
	}
}
