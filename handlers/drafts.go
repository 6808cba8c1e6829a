package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
	"quotationdesk/services"
)

// DraftView is the JSON shape of a draft: items in display order plus totals.
type DraftView struct {
	ID          string            `json:"id"`
	Mode        string            `json:"mode"`
	QuotationID string            `json:"quotationId,omitempty"`
	Customer    ledger.Customer   `json:"customer"`
	Items       []ledger.LineItem `json:"items"`
	Totals      ledger.Totals     `json:"totals"`
}

func (d *Desk) draftView(s *ledger.Session) DraftView {
	items := ledger.SortForDisplay(s.Ledger.Items(), d.Config.CategoryOrder)
	if items == nil {
		items = []ledger.LineItem{}
	}
	return DraftView{
		ID:          s.ID,
		Mode:        s.Mode.String(),
		QuotationID: s.QuotationID,
		Customer:    s.Customer,
		Items:       items,
		Totals:      s.Ledger.Totals(),
	}
}

type draftCreateRequest struct {
	Mode        string `json:"mode"`
	QuotationID string `json:"quotationId"`
}

// HandleDraftCreate starts a draft. In editing mode the saved quotation is
// restored into the draft's ledger.
func HandleDraftCreate(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body draftCreateRequest
		if err := e.BindBody(&body); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		user := GetCurrentUser(e.Request)
		mode := ledger.ParseMode(body.Mode)

		if mode == ledger.ModeCreating {
			sess := desk.Drafts.Create(mode, "", nil, user)
			return e.JSON(http.StatusCreated, desk.draftView(&sess))
		}

		if body.QuotationID == "" {
			return ErrorToast(e, http.StatusBadRequest, "quotationId is required when editing")
		}
		payload, err := services.LoadQuotation(app, body.QuotationID)
		if err != nil {
			return FailWith(e, "drafts: HandleDraftCreate", err)
		}
		rules, err := services.LoadGSTRules(app, desk.Config.DefaultGST)
		if err != nil {
			return FailWith(e, "drafts: HandleDraftCreate", err)
		}
		items := services.WithCatalogBaseline(app, payload.LineItems(), rules)

		sess := desk.Drafts.Create(mode, payload.QuotationID, ledger.Restore(items, payload.Discount()), user)
		err = desk.Drafts.Update(sess.ID, func(s *ledger.Session) error {
			s.Customer = payload.Customer
			sess = *s
			return nil
		})
		if err != nil {
			return FailWith(e, "drafts: HandleDraftCreate", err)
		}
		log.Printf("drafts: HandleDraftCreate: %s editing %s", user, payload.QuotationID)
		return e.JSON(http.StatusCreated, desk.draftView(&sess))
	}
}

// HandleDraftGet returns the draft's items and totals.
func HandleDraftGet(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var view DraftView
		err := desk.Drafts.View(e.Request.PathValue("id"), func(s *ledger.Session) error {
			view = desk.draftView(s)
			return nil
		})
		if err != nil {
			return FailWith(e, "drafts: HandleDraftGet", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleDraftDiscard drops a draft without persisting it.
func HandleDraftDiscard(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := desk.Drafts.Discard(e.Request.PathValue("id")); err != nil {
			return FailWith(e, "drafts: HandleDraftDiscard", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// PageView is the JSON form of one planned page.
type PageView struct {
	PageIndex          int               `json:"pageIndex"`
	TotalPages         int               `json:"totalPages"`
	Items              []ledger.LineItem `json:"items"`
	IsFirstPage        bool              `json:"isFirstPage"`
	IsLastPage         bool              `json:"isLastPage"`
	ShowHeader         bool              `json:"showHeader"`
	ShowFooter         bool              `json:"showFooter"`
	SerialNumberOffset int               `json:"serialNumberOffset"`
}

// HandleDraftPages returns the page plan for the draft's items in display order.
func HandleDraftPages(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var items []ledger.LineItem
		err := desk.Drafts.View(e.Request.PathValue("id"), func(s *ledger.Session) error {
			items = ledger.SortForDisplay(s.Ledger.Items(), desk.Config.CategoryOrder)
			return nil
		})
		if err != nil {
			return FailWith(e, "drafts: HandleDraftPages", err)
		}

		plan := services.PlanPages(items, desk.Config.ItemsPerPage)
		pages := make([]PageView, 0, len(plan))
		for _, p := range plan {
			pageItems := p.Items
			if pageItems == nil {
				pageItems = []ledger.LineItem{}
			}
			pages = append(pages, PageView{
				PageIndex:          p.PageIndex,
				TotalPages:         p.TotalPages,
				Items:              pageItems,
				IsFirstPage:        p.IsFirstPage,
				IsLastPage:         p.IsLastPage,
				ShowHeader:         p.ShowHeader(),
				ShowFooter:         p.ShowFooter(),
				SerialNumberOffset: p.SerialNumberOffset,
			})
		}
		return e.JSON(http.StatusOK, pages)
	}
}
