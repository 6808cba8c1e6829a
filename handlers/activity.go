package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"quotationdesk/services"
)

// ActivityView is one entry of the activity feed.
type ActivityView struct {
	Action      string `json:"action"`
	QuotationID string `json:"quotationId"`
	User        string `json:"user"`
	Details     string `json:"details"`
	Created     string `json:"created"`
	When        string `json:"when"`
}

// HandleActivityList returns the most recent activity entries, newest first.
// ?limit= caps the count (default 20).
func HandleActivityList(app *pocketbase.PocketBase, desk *Desk) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		limit := cast.ToInt(e.Request.URL.Query().Get("limit"))

		entries, err := services.ListActivity(app, limit)
		if err != nil {
			return FailWith(e, "activity: HandleActivityList", err)
		}

		now := desk.now()
		views := make([]ActivityView, 0, len(entries))
		for _, a := range entries {
			views = append(views, ActivityView{
				Action:      a.Action,
				QuotationID: a.QuotationID,
				User:        a.User,
				Details:     a.Details,
				Created:     a.Created.UTC().Format("2006-01-02 15:04:05"),
				When:        humanize.RelTime(a.Created, now, "ago", "from now"),
			})
		}
		return e.JSON(http.StatusOK, views)
	}
}
