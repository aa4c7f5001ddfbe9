package calcstore

import (
	"context"
	"database/sql"
	"math"

	"powercalc/backend/libs/models"
)

// PostgresStore reaches the calculations table directly over database/sql.
// It trusts its connection and does not use the caller's access token.
type PostgresStore struct {
	db    *sql.DB
	limit int
}

// Schema creates the calculations table the way the hosted project defines it.
const Schema = `
	CREATE TABLE IF NOT EXISTS calculations (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL,
		hours DOUBLE PRECISION,
		power DOUBLE PRECISION,
		cost_per_kwh DOUBLE PRECISION,
		total_cost DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS calculations_user_created_idx ON calculations (user_id, created_at DESC);
`

// NewPostgresStore returns a store over db. limit <= 0 means unlimited.
func NewPostgresStore(db *sql.DB, limit int) *PostgresStore {
	return &PostgresStore{db: db, limit: limit}
}

// EnsureSchema applies Schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Insert writes one row; created_at is filled by the column default.
func (s *PostgresStore) Insert(ctx context.Context, _ string, row models.NewCalculation) error {
	const query = `
		INSERT INTO calculations (user_id, hours, power, cost_per_kwh, total_cost)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		row.UserID,
		nullable(row.Hours),
		nullable(row.Power),
		nullable(row.CostPerKWh),
		nullable(row.TotalCost),
	)
	return err
}

// ListByUser returns the user's rows, newest first.
func (s *PostgresStore) ListByUser(ctx context.Context, _ string, userID string) ([]models.Calculation, error) {
	query := `
		SELECT id, user_id::text, hours, power, cost_per_kwh, total_cost, created_at
		FROM calculations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []any{userID}
	if s.limit > 0 {
		query += ` LIMIT $2`
		args = append(args, s.limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Calculation
	for rows.Next() {
		var (
			c                             models.Calculation
			hours, power, cost, totalCost sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &hours, &power, &cost, &totalCost, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Hours = decimal(hours)
		c.Power = decimal(power)
		c.CostPerKWh = decimal(cost)
		c.TotalCost = decimal(totalCost)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullable(d models.Decimal) sql.NullFloat64 {
	return sql.NullFloat64{Float64: d.Float(), Valid: d.Valid()}
}

func decimal(n sql.NullFloat64) models.Decimal {
	if !n.Valid {
		return models.Decimal(math.NaN())
	}
	return models.Decimal(n.Float64)
}
