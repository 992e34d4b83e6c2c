package history

import (
	"context"
	"embed"
	"io/fs"
	"time"

	"github.com/dmitrymomot/outreach/pkg/campaign"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the goose migrations for the history table, rooted at
// the migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err) // embedded path is fixed
	}
	return sub
}

// Record is one finished unit of work as stored in the history.
type Record struct {
	SendTime   time.Time       `json:"send_time"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	UnitID     string          `json:"unit_id"`
	CampaignID string          `json:"campaign_id"`
	Recipient  string          `json:"recipient"`
	Status     campaign.Status `json:"status"`
	Response   string          `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	StatusCode int             `json:"status_code"`
	Misfired   bool            `json:"misfired,omitempty"`
}

// FromOutcome converts a scheduler outcome into a Record.
func FromOutcome(o campaign.Outcome) Record {
	return Record{
		UnitID:     o.Unit.ID,
		CampaignID: o.Unit.CampaignID,
		Recipient:  o.Unit.Recipient,
		Status:     o.Unit.Status,
		StatusCode: o.StatusCode,
		Response:   string(o.Response),
		Error:      o.Error,
		Misfired:   o.Misfired,
		SendTime:   o.Unit.SendTime,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
	}
}

// Store persists delivery outcomes.
type Store interface {
	// Append stores r. Appending the same unit twice keeps the first record.
	Append(ctx context.Context, r Record) error
	// List returns up to limit records of a campaign, newest first.
	// A limit of zero or less means no limit.
	List(ctx context.Context, campaignID string, limit int) ([]Record, error)
}
