package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/GoTitans/titangate/internal/model"
	"github.com/jmoiron/sqlx"
)

type PostgresTenantRepo struct {
	db *sqlx.DB
}

func NewPostgresTenantRepo(db *sqlx.DB) *PostgresTenantRepo {
	repo := &PostgresTenantRepo{db: db}
	_ = repo.ensureSchema(context.Background())
	return repo
}

// DB model; the per-tenant config map travels as JSONB.
type tenantDB struct {
	ID              string    `db:"id"`
	Email           string    `db:"email"`
	KeyDigest       string    `db:"api_key_digest"`
	Plan            string    `db:"plan"`
	Active          bool      `db:"active"`
	TradingMode     string    `db:"trading_mode"`
	SubscriptionRef string    `db:"subscription_ref"`
	ConfigJSON      []byte    `db:"config"`
	CreatedAt       time.Time `db:"created_at"`
}

const tenantColumns = `id, email, api_key_digest, plan, active, trading_mode, subscription_ref, config, created_at`

func (r *PostgresTenantRepo) GetByKeyDigest(ctx context.Context, digest string) (*model.Tenant, error) {
	var td tenantDB
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE api_key_digest = $1 LIMIT 1`

	err := r.db.GetContext(ctx, &td, query, digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTenantNotFound
		}
		return nil, err
	}
	return r.toDomain(&td)
}

func (r *PostgresTenantRepo) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	var td tenantDB
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 LIMIT 1`
	err := r.db.GetContext(ctx, &td, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTenantNotFound
		}
		return nil, err
	}
	return r.toDomain(&td)
}

func (r *PostgresTenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	cfg, _ := json.Marshal(t.Config)
	query := `INSERT INTO tenants (id, email, api_key_digest, plan, active, trading_mode, subscription_ref, config, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Email, t.KeyDigest, string(t.Plan), t.Active, string(t.TradingMode), t.SubscriptionRef, cfg, t.CreatedAt.UTC())
	return err
}

// UpdatePlan applies a plan transition as a single statement so concurrent
// readers never observe plan and subscription_ref out of step.
func (r *PostgresTenantRepo) UpdatePlan(ctx context.Context, id string, plan model.PlanTier, subscriptionRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants
		SET plan = $2, subscription_ref = $3, updated_at = now()
		WHERE id = $1
	`, id, string(plan), subscriptionRef)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.ErrTenantNotFound
	}
	return nil
}

// Deactivate soft-disables the account. The plan is left untouched; tenants
// are never hard-deleted here.
func (r *PostgresTenantRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.ErrTenantNotFound
	}
	return nil
}

func (r *PostgresTenantRepo) List(ctx context.Context, limit, offset int) ([]*model.Tenant, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make([]*model.Tenant, 0, limit)
	for rows.Next() {
		var td tenantDB
		if err := rows.StructScan(&td); err != nil {
			return nil, err
		}
		tenant, err := r.toDomain(&td)
		if err != nil {
			return nil, err
		}
		results = append(results, tenant)
	}
	return results, nil
}

func (r *PostgresTenantRepo) toDomain(td *tenantDB) (*model.Tenant, error) {
	t := &model.Tenant{
		ID:              td.ID,
		Email:           td.Email,
		KeyDigest:       td.KeyDigest,
		Plan:            model.PlanTier(td.Plan),
		Active:          td.Active,
		TradingMode:     model.TradingMode(td.TradingMode),
		SubscriptionRef: td.SubscriptionRef,
		CreatedAt:       td.CreatedAt,
	}
	if len(td.ConfigJSON) > 0 {
		if err := json.Unmarshal(td.ConfigJSON, &t.Config); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (r *PostgresTenantRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tenants (
			id TEXT PRIMARY KEY,
			email TEXT,
			api_key_digest TEXT UNIQUE NOT NULL,
			plan TEXT NOT NULL DEFAULT 'free',
			active BOOLEAN NOT NULL DEFAULT true,
			trading_mode TEXT NOT NULL DEFAULT 'paper',
			subscription_ref TEXT NOT NULL DEFAULT '',
			config JSONB,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		return err
	}
	_, _ = r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_tenants_digest ON tenants (api_key_digest)`)
	return nil
}
