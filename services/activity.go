package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// Activity actions written to the logs collection.
const (
	ActionQuotationCreated = "quotation_created"
	ActionQuotationUpdated = "quotation_updated"
	ActionOverrideStaged   = "override_staged"
)

// ActivityEntry is one row of the activity feed.
type ActivityEntry struct {
	Action      string
	QuotationID string
	User        string
	Details     string
	Created     time.Time
}

// RecordActivity appends an entry to the logs collection. Failures are logged
// and swallowed so the operation being recorded is not undone.
func RecordActivity(app core.App, action, quotationID, user, details string) {
	col, err := app.FindCollectionByNameOrId("logs")
	if err != nil {
		log.Printf("activity: RecordActivity: logs collection missing: %v", err)
		return
	}

	record := core.NewRecord(col)
	record.Set("action", action)
	record.Set("quotation_id", quotationID)
	record.Set("user", user)
	record.Set("details", details)
	if err := app.Save(record); err != nil {
		log.Printf("activity: RecordActivity: save %s for %s: %v", action, quotationID, err)
	}
}

// ListActivity returns the most recent entries, newest first.
func ListActivity(app core.App, limit int) ([]ActivityEntry, error) {
	if limit < 1 {
		limit = 20
	}
	records, err := app.FindRecordsByFilter("logs", "1=1", "-created", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("activity: list logs: %w", err)
	}

	out := make([]ActivityEntry, 0, len(records))
	for _, r := range records {
		out = append(out, ActivityEntry{
			Action:      r.GetString("action"),
			QuotationID: r.GetString("quotation_id"),
			User:        r.GetString("user"),
			Details:     r.GetString("details"),
			Created:     r.GetDateTime("created").Time(),
		})
	}
	return out, nil
}
