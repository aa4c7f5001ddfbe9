package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestDecimalEncodesNonFiniteAsNull(t *testing.T) {
	row := NewCalculation{
		UserID:     "u1",
		Hours:      2,
		Power:      Decimal(math.NaN()),
		CostPerKWh: 0.15,
		TotalCost:  Decimal(math.Inf(1)),
	}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"user_id":"u1","hours":2,"power":null,"cost_per_kwh":0.15,"total_cost":null}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}

func TestDecimalDecodesNullAsNaN(t *testing.T) {
	var row Calculation
	body := `{"id":7,"user_id":"u1","hours":null,"power":100,"cost_per_kwh":0.2,"total_cost":30,"created_at":"2024-03-01T10:00:00.123456+00:00"}`
	if err := json.Unmarshal([]byte(body), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row.Hours.Valid() {
		t.Errorf("hours = %v, want NaN", row.Hours)
	}
	if row.Power.Float() != 100 {
		t.Errorf("power = %v", row.Power)
	}
	if row.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
}

func TestSessionExpiresWithin(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := &Session{ExpiresAt: now.Add(5 * time.Second).Unix()}
	if !s.ExpiresWithin(now, 10*time.Second) {
		t.Error("session expiring in 5s should be inside a 10s margin")
	}
	if s.ExpiresWithin(now, time.Second) {
		t.Error("session expiring in 5s should be outside a 1s margin")
	}
	if (&Session{}).ExpiresWithin(now, time.Hour) {
		t.Error("session without expiry should not expire")
	}
}

func TestUserFullName(t *testing.T) {
	u := &User{UserMetadata: map[string]any{FullNameKey: "Ada"}}
	if u.FullName() != "Ada" {
		t.Errorf("FullName = %q", u.FullName())
	}
	var nilUser *User
	if nilUser.FullName() != "" {
		t.Error("nil user should have empty name")
	}
}
