// Package calcstore reads and writes calculation rows owned by a user.
package calcstore

import (
	"context"

	"powercalc/backend/libs/models"
	"powercalc/backend/libs/supabase"
)

// Store is the row contract the gateway depends on. accessToken is the
// caller's session token; stores that do not authorise per user ignore it.
type Store interface {
	Insert(ctx context.Context, accessToken string, row models.NewCalculation) error
	ListByUser(ctx context.Context, accessToken, userID string) ([]models.Calculation, error)
}

// RESTStore keeps rows in the hosted backend's calculations table.
type RESTStore struct {
	rest  *supabase.RestClient
	table string
}

// NewRESTStore returns a store over rest.
func NewRESTStore(rest *supabase.RestClient) *RESTStore {
	return &RESTStore{rest: rest, table: models.CalculationsTable}
}

// Insert writes one row.
func (s *RESTStore) Insert(ctx context.Context, accessToken string, row models.NewCalculation) error {
	return s.rest.Insert(ctx, accessToken, s.table, []models.NewCalculation{row})
}

// ListByUser returns the user's rows, newest first.
func (s *RESTStore) ListByUser(ctx context.Context, accessToken, userID string) ([]models.Calculation, error) {
	q := supabase.Query{
		Columns: "*",
		Eq:      map[string]string{"user_id": userID},
		Order:   []supabase.Order{{Column: "created_at"}},
	}
	var rows []models.Calculation
	if err := s.rest.Select(ctx, accessToken, s.table, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
