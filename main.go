package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/collections"
	"quotationdesk/config"
	"quotationdesk/handlers"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	desk := handlers.NewDesk(cfg)

	app.RootCmd.AddCommand(newExportCommand(app, cfg))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateDefaultSettings(app); err != nil {
			log.Printf("Warning: settings migration failed: %v", err)
		}
		if cfg.SeedDemoCatalog {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Record the acting user on every request
		se.Router.BindFunc(handlers.CurrentUserMiddleware())

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/catalog", handlers.HandleCatalogList(app, desk))

		// ── Drafts (in-memory ledgers) ───────────────────────────
		se.Router.POST("/drafts", handlers.HandleDraftCreate(app, desk))
		se.Router.GET("/drafts/{id}", handlers.HandleDraftGet(desk))
		se.Router.DELETE("/drafts/{id}", handlers.HandleDraftDiscard(desk))

		se.Router.POST("/drafts/{id}/items", handlers.HandleDraftAddItem(app, desk))
		se.Router.PATCH("/drafts/{id}/items/{productId}", handlers.HandleDraftUpdateItem(desk))
		se.Router.DELETE("/drafts/{id}/items/{productId}", handlers.HandleDraftRemoveItem(desk))
		se.Router.PUT("/drafts/{id}/discount", handlers.HandleDraftSetDiscount(desk))
		se.Router.PUT("/drafts/{id}/customer", handlers.HandleDraftSetCustomer(desk))

		se.Router.GET("/drafts/{id}/pages", handlers.HandleDraftPages(desk))
		se.Router.GET("/drafts/{id}/preview.pdf", handlers.HandleDraftPreviewPDF(app, desk))
		se.Router.POST("/drafts/{id}/save", handlers.HandleDraftSave(app, desk))

		// ── Quotations ───────────────────────────────────────────
		se.Router.POST("/quotations", handlers.HandleQuotationCreate(app, desk))
		se.Router.POST("/quotations/{id}/update", handlers.HandleQuotationUpdate(app, desk))

		// ── Quotation export ─────────────────────────────────────
		se.Router.GET("/quotations/{id}/pdf", handlers.HandleQuotationPDF(app, desk))
		se.Router.GET("/quotations/{id}/pages.html", handlers.HandleQuotationPagesHTML(app, desk))
		se.Router.GET("/quotations/{id}/xlsx", handlers.HandleQuotationExcel(app, desk))

		// ── Staged overrides and activity ────────────────────────
		se.Router.GET("/temp", handlers.HandleTempList(app))
		se.Router.GET("/activity", handlers.HandleActivityList(app, desk))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
