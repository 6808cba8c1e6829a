package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
	"quotationdesk/services"
)

// HandleDraftAddItem adds a catalog product to the draft. Re-adding a product
// already in the draft increments its quantity.
func HandleDraftAddItem(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			ProductID string `json:"productId"`
		}
		if err := e.BindBody(&body); err != nil || strings.TrimSpace(body.ProductID) == "" {
			return ErrorToast(e, http.StatusBadRequest, "productId is required")
		}

		item, err := services.FindCatalogItem(app, strings.TrimSpace(body.ProductID))
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftAddItem", err)
		}
		rates, err := services.LoadGSTRules(app, desk.Config.DefaultGST)
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftAddItem", err)
		}

		var view DraftView
		err = desk.Drafts.Update(e.Request.PathValue("id"), func(s *ledger.Session) error {
			s.Ledger.AddItem(item, rates)
			view = desk.draftView(s)
			return nil
		})
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftAddItem", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleDraftUpdateItem applies raw quantity, price and gstRate edits. Values
// may be numbers or strings; malformed input is coerced, never rejected. A
// quantity of zero or less removes the item.
func HandleDraftUpdateItem(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		body := map[string]any{}
		if err := e.BindBody(&body); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}
		productID := e.Request.PathValue("productId")

		var view DraftView
		err := desk.Drafts.Update(e.Request.PathValue("id"), func(s *ledger.Session) error {
			if raw, ok := body["price"]; ok {
				s.Ledger.SetUnitPrice(productID, raw, s.Mode)
			}
			if raw, ok := body["gstRate"]; ok {
				s.Ledger.SetGSTRate(productID, raw, s.Mode)
			}
			if raw, ok := body["quantity"]; ok {
				s.Ledger.SetQuantity(productID, raw)
			}
			view = desk.draftView(s)
			return nil
		})
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftUpdateItem", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleDraftRemoveItem removes a product from the draft. Absent products are a no-op.
func HandleDraftRemoveItem(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		productID := e.Request.PathValue("productId")

		var view DraftView
		err := desk.Drafts.Update(e.Request.PathValue("id"), func(s *ledger.Session) error {
			s.Ledger.RemoveItem(productID)
			view = desk.draftView(s)
			return nil
		})
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftRemoveItem", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleDraftSetDiscount sets the discount percent, coercing invalid input to 0.
func HandleDraftSetDiscount(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			DiscountPercent any `json:"discountPercent"`
		}
		if err := e.BindBody(&body); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		var view DraftView
		err := desk.Drafts.Update(e.Request.PathValue("id"), func(s *ledger.Session) error {
			s.Ledger.SetDiscount(body.DiscountPercent)
			view = desk.draftView(s)
			return nil
		})
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftSetDiscount", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleDraftSetCustomer replaces the draft's customer block. Validation
// happens on save.
func HandleDraftSetCustomer(desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var customer ledger.Customer
		if err := e.BindBody(&customer); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}

		var view DraftView
		err := desk.Drafts.Update(e.Request.PathValue("id"), func(s *ledger.Session) error {
			s.Customer = services.NormalizeCustomer(customer)
			view = desk.draftView(s)
			return nil
		})
		if err != nil {
			return FailWith(e, "draft_items: HandleDraftSetCustomer", err)
		}
		return e.JSON(http.StatusOK, view)
	}
}
