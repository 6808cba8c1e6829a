package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
)

var (
	// ErrQuotationNotFound is returned when no quotation has the given number.
	ErrQuotationNotFound = errors.New("quotation not found")
	// ErrQuotationExists is returned when creating a quotation whose number is taken.
	ErrQuotationExists = errors.New("quotation already exists")
)

// dateLayout is the format of the dateCreated payload field.
const dateLayout = "2006-01-02"

// SaveRequest describes one create or update of a quotation.
type SaveRequest struct {
	Payload ledger.Payload
	// Update selects the update path; Payload.QuotationID must then name an
	// existing quotation.
	Update    bool
	Overrides []ledger.Override
	User      string
	Prefix    string
	Now       time.Time
}

// SaveResult is the canonical payload as it was persisted.
type SaveResult struct {
	RecordID string
	Revision int
	Payload  ledger.Payload
}

// SaveQuotation validates the customer, recomputes every total from the items,
// then writes the quotation, the customer, the staged overrides and an
// activity entry in one transaction.
func SaveQuotation(app core.App, req SaveRequest) (SaveResult, error) {
	customer := NormalizeCustomer(req.Payload.Customer)
	if err := ValidateCustomer(customer); err != nil {
		return SaveResult{}, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	createdBy := req.Payload.CreatedBy
	if createdBy == "" {
		createdBy = req.User
	}

	var result SaveResult
	err := app.RunInTransaction(func(txApp core.App) error {
		record, quotationID, err := resolveQuotationRecord(txApp, req, now)
		if err != nil {
			return err
		}

		dateCreated := req.Payload.DateCreated
		if dateCreated == "" {
			dateCreated = record.GetString("date_created")
		}
		if dateCreated == "" {
			dateCreated = now.Format(dateLayout)
		}
		author := createdBy
		if stored := record.GetString("created_by"); stored != "" {
			author = stored
		}
		revision := record.GetInt("revision") + 1

		payload := req.Payload.Ledger().Payload(ledger.PayloadMeta{
			QuotationID: quotationID,
			DateCreated: dateCreated,
			Customer:    customer,
			CreatedBy:   author,
		})

		customerRecord, err := UpsertCustomer(txApp, customer)
		if err != nil {
			return err
		}

		record.Set("quotation_id", payload.QuotationID)
		record.Set("date_created", payload.DateCreated)
		record.Set("customer_ref", customerRecord.Id)
		record.Set("customer", payload.Customer)
		record.Set("items", payload.Items)
		record.Set("sub_total", payload.SubTotal)
		record.Set("discount_percent", payload.DiscountPercent)
		record.Set("discount_amount", payload.DiscountAmount)
		record.Set("total_gst_amount", payload.TotalGSTAmount)
		record.Set("grand_total", payload.GrandTotal)
		record.Set("revision", revision)
		if record.IsNew() {
			record.Set("created_by", payload.CreatedBy)
		}
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("quotation_store: save %s: %w", quotationID, err)
		}

		staged := 0
		for _, o := range req.Overrides {
			if _, ok := findPayloadItem(payload.Items, o.ProductID); !ok {
				continue
			}
			if err := StageOverride(txApp, quotationID, revision, req.User, o); err != nil {
				return err
			}
			staged++
		}

		action := ActionQuotationCreated
		if req.Update {
			action = ActionQuotationUpdated
		}
		RecordActivity(txApp, action, quotationID, req.User,
			fmt.Sprintf("%d items, grand total %s", len(payload.Items), payload.GrandTotal))
		if staged > 0 {
			RecordActivity(txApp, ActionOverrideStaged, quotationID, req.User,
				fmt.Sprintf("%d price/GST overrides staged", staged))
		}

		result = SaveResult{RecordID: record.Id, Revision: revision, Payload: payload}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}
	return result, nil
}

// resolveQuotationRecord returns the record to write and its quotation number.
func resolveQuotationRecord(app core.App, req SaveRequest, now time.Time) (*core.Record, string, error) {
	quotationID := req.Payload.QuotationID

	if req.Update {
		record, err := findQuotationRecord(app, quotationID)
		if err != nil {
			return nil, "", err
		}
		return record, quotationID, nil
	}

	if quotationID == "" {
		prefix := req.Prefix
		if prefix == "" {
			prefix = "QT"
		}
		generated, err := GenerateQuotationNumber(app, prefix, now)
		if err != nil {
			return nil, "", err
		}
		quotationID = generated
	} else if _, err := findQuotationRecord(app, quotationID); err == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrQuotationExists, quotationID)
	}

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return nil, "", fmt.Errorf("quotation_store: find collection: %w", err)
	}
	return core.NewRecord(col), quotationID, nil
}

func findQuotationRecord(app core.App, quotationID string) (*core.Record, error) {
	if quotationID == "" {
		return nil, ErrQuotationNotFound
	}
	record, err := app.FindFirstRecordByFilter("quotations", "quotation_id = {:id}", map[string]any{"id": quotationID})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQuotationNotFound, quotationID)
	}
	return record, nil
}

func findPayloadItem(items []ledger.PayloadItem, productID string) (ledger.PayloadItem, bool) {
	for _, it := range items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return ledger.PayloadItem{}, false
}

// LoadQuotation reads a stored quotation back into its payload form.
func LoadQuotation(app core.App, quotationID string) (ledger.Payload, error) {
	record, err := findQuotationRecord(app, quotationID)
	if err != nil {
		return ledger.Payload{}, err
	}
	return payloadFromRecord(record)
}

func payloadFromRecord(record *core.Record) (ledger.Payload, error) {
	quotationID := record.GetString("quotation_id")

	var customer ledger.Customer
	if err := record.UnmarshalJSONField("customer", &customer); err != nil {
		return ledger.Payload{}, fmt.Errorf("quotation_store: decode customer of %s: %w", quotationID, err)
	}
	var items []ledger.PayloadItem
	if err := record.UnmarshalJSONField("items", &items); err != nil {
		return ledger.Payload{}, fmt.Errorf("quotation_store: decode items of %s: %w", quotationID, err)
	}

	return ledger.Payload{
		QuotationID:     quotationID,
		DateCreated:     record.GetString("date_created"),
		Customer:        customer,
		Items:           items,
		SubTotal:        record.GetString("sub_total"),
		DiscountPercent: record.GetString("discount_percent"),
		DiscountAmount:  record.GetString("discount_amount"),
		TotalGSTAmount:  record.GetString("total_gst_amount"),
		GrandTotal:      record.GetString("grand_total"),
		CreatedBy:       record.GetString("created_by"),
	}, nil
}
