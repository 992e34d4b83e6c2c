package history

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by Postgres.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres stores outcomes in the delivery_outcomes table.
type Postgres struct {
	db DB
}

// NewPostgres creates a Postgres store. Run db.Migrate with Migrations() first.
func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

// Append implements Store.
func (p *Postgres) Append(ctx context.Context, r Record) error {
	const q = `
INSERT INTO delivery_outcomes (
    unit_id, campaign_id, recipient, status, status_code,
    response, error, misfired, send_time, started_at, finished_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (unit_id) DO NOTHING;
`
	_, err := p.db.Exec(ctx, q,
		r.UnitID, r.CampaignID, r.Recipient, string(r.Status), r.StatusCode,
		r.Response, r.Error, r.Misfired, r.SendTime, r.StartedAt, r.FinishedAt,
	)
	if err != nil {
		return errors.Join(ErrAppendFailed, err)
	}
	return nil
}

// List implements Store.
func (p *Postgres) List(ctx context.Context, campaignID string, limit int) ([]Record, error) {
	if campaignID == "" {
		return nil, ErrCampaignRequired
	}

	const q = `
SELECT unit_id, campaign_id, recipient, status, status_code,
       response, error, misfired, send_time, started_at, finished_at
FROM delivery_outcomes
WHERE campaign_id = $1
ORDER BY finished_at DESC, unit_id DESC
LIMIT NULLIF($2, 0);
`
	rows, err := p.db.Query(ctx, q, campaignID, max(limit, 0))
	if err != nil {
		return nil, errors.Join(ErrListFailed, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(
			&r.UnitID,
			&r.CampaignID,
			&r.Recipient,
			&r.Status,
			&r.StatusCode,
			&r.Response,
			&r.Error,
			&r.Misfired,
			&r.SendTime,
			&r.StartedAt,
			&r.FinishedAt,
		)
		return r, err
	})
	if err != nil {
		return nil, errors.Join(ErrListFailed, err)
	}
	return records, nil
}

var _ Store = (*Postgres)(nil)
