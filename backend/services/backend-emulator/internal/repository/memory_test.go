package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"powercalc/backend/libs/models"
)

func TestCreateUserNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.CreateUser(ctx, UserRecord{User: models.User{ID: "u1", Email: " Ada@Example.COM "}}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := m.CreateUser(ctx, UserRecord{User: models.User{ID: "u2", Email: "ada@example.com"}}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate err = %v", err)
	}

	rec, err := m.UserByEmail(ctx, "ADA@example.com")
	if err != nil || rec.ID != "u1" {
		t.Fatalf("UserByEmail = %+v, %v", rec, err)
	}
	if _, err := m.UserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("UserByID err = %v", err)
	}
}

func TestCloseSessionRevokesRefreshTokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.OpenSession(ctx, "s1", "u1")
	_ = m.SaveRefreshToken(ctx, RefreshToken{Token: "rt1", UserID: "u1", SessionID: "s1"})

	if err := m.CloseSession(ctx, "s1"); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, err := m.SessionUser(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("SessionUser err = %v", err)
	}
	rt, err := m.ConsumeRefreshToken(ctx, "rt1")
	if err != nil || !rt.Revoked {
		t.Fatalf("refresh token = %+v, %v", rt, err)
	}
}

func TestConsumeRefreshTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.SaveRefreshToken(ctx, RefreshToken{Token: "rt1", UserID: "u1", SessionID: "s1"})

	first, err := m.ConsumeRefreshToken(ctx, "rt1")
	if err != nil || first.Revoked {
		t.Fatalf("first use = %+v, %v", first, err)
	}
	second, err := m.ConsumeRefreshToken(ctx, "rt1")
	if err != nil || !second.Revoked {
		t.Fatalf("second use = %+v, %v", second, err)
	}
	if _, err := m.ConsumeRefreshToken(ctx, "nope"); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Fatalf("unknown token err = %v", err)
	}
}

func TestInsertRowsAssignsIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	err := m.InsertRows(ctx, []models.NewCalculation{{UserID: "u1", Hours: 1}, {UserID: "u2", Hours: 2}, {UserID: "u1", Hours: 3}}, at)
	if err != nil {
		t.Fatalf("InsertRows: %v", err)
	}

	rows := m.Rows(ctx, func(c models.Calculation) bool { return c.UserID == "u1" })
	if len(rows) != 2 || rows[0].ID != 1 || rows[1].ID != 3 {
		t.Fatalf("rows = %+v", rows)
	}
	if !rows[0].CreatedAt.Equal(at) {
		t.Fatalf("created_at = %s", rows[0].CreatedAt)
	}
	if all := m.Rows(ctx, nil); len(all) != 3 {
		t.Fatalf("all rows = %d", len(all))
	}
}

func TestInsertRowsStampsBatchesInOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	_ = m.InsertRows(ctx, []models.NewCalculation{{UserID: "u1"}}, at)
	_ = m.InsertRows(ctx, []models.NewCalculation{{UserID: "u1"}}, at)

	rows := m.Rows(ctx, nil)
	if !rows[1].CreatedAt.After(rows[0].CreatedAt) {
		t.Fatalf("second batch at %s, first at %s", rows[1].CreatedAt, rows[0].CreatedAt)
	}
}
