package handlers

import (
	"time"

	"quotationdesk/config"
	"quotationdesk/ledger"
	"quotationdesk/services"
)

// Desk is the state shared by the quotation handlers.
type Desk struct {
	Config *config.Config
	Drafts *ledger.Store
	Now    func() time.Time
}

// NewDesk returns a Desk with a draft store evicting after cfg.DraftTTL.
func NewDesk(cfg *config.Config) *Desk {
	return &Desk{
		Config: cfg,
		Drafts: ledger.NewStore(cfg.DraftTTL),
		Now:    time.Now,
	}
}

func (d *Desk) documentOptions() services.DocumentOptions {
	return services.DocumentOptions{
		CategoryOrder: d.Config.CategoryOrder,
		ValidityDays:  d.Config.ValidityDays,
	}
}

func (d *Desk) renderOptions(logo []byte) services.RenderOptions {
	return services.RenderOptions{
		ItemsPerPage: d.Config.ItemsPerPage,
		PageWidthPx:  d.Config.PageWidthPx,
		Logo:         logo,
	}
}

// snapshot copies the draft so it can be read without holding the store lock.
func (d *Desk) snapshot(id string) (ledger.Session, error) {
	var snap ledger.Session
	err := d.Drafts.View(id, func(s *ledger.Session) error {
		snap = *s
		snap.Ledger = ledger.Restore(s.Ledger.Items(), s.Ledger.DiscountPercent())
		return nil
	})
	return snap, err
}

// now returns the desk clock's current time.
func (d *Desk) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
