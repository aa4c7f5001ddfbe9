package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"powercalc/backend/libs/models"
)

var (
	// ErrUserNotFound represents missing users.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSessionNotFound is returned for unknown or revoked sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRefreshTokenNotFound is returned for unknown refresh tokens.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// UserRecord is a user with its credential.
type UserRecord struct {
	models.User
	PasswordHash string
}

// RefreshToken belongs to one session and is single use.
type RefreshToken struct {
	Token     string
	UserID    string
	SessionID string
	Revoked   bool
}

// Memory keeps users, sessions and rows in process memory.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]*UserRecord
	byEmail  map[string]string
	sessions map[string]string
	refresh  map[string]*RefreshToken
	rows     []models.Calculation
	lastRow  int64
	lastAt   time.Time
}

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]*UserRecord),
		byEmail:  make(map[string]string),
		sessions: make(map[string]string),
		refresh:  make(map[string]*RefreshToken),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores rec; the email must be unused.
func (m *Memory) CreateUser(_ context.Context, rec UserRecord) error {
	email := normalizeEmail(rec.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[email]; ok {
		return ErrEmailTaken
	}
	rec.Email = email
	m.users[rec.ID] = &rec
	m.byEmail[email] = rec.ID
	return nil
}

// UserByEmail fetches a user by email.
func (m *Memory) UserByEmail(_ context.Context, email string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	rec := *m.users[id]
	return &rec, nil
}

// UserByID fetches a user by id.
func (m *Memory) UserByID(_ context.Context, id string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *rec
	return &out, nil
}

// OpenSession records a live session of userID.
func (m *Memory) OpenSession(_ context.Context, sessionID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = userID
	return nil
}

// SessionUser returns the owner of a live session.
func (m *Memory) SessionUser(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return userID, nil
}

// CloseSession ends a session and revokes its refresh tokens.
func (m *Memory) CloseSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	for _, rt := range m.refresh {
		if rt.SessionID == sessionID {
			rt.Revoked = true
		}
	}
	return nil
}

// SaveRefreshToken stores a new refresh token.
func (m *Memory) SaveRefreshToken(_ context.Context, rt RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[rt.Token] = &rt
	return nil
}

// ConsumeRefreshToken marks token used and returns it as it was before.
func (m *Memory) ConsumeRefreshToken(_ context.Context, token string) (RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.refresh[token]
	if !ok {
		return RefreshToken{}, ErrRefreshTokenNotFound
	}
	before := *rt
	rt.Revoked = true
	return before, nil
}

// InsertRows appends rows with ids and createdAt assigned. The whole batch
// shares one timestamp, and every batch is stamped after the previous one.
func (m *Memory) InsertRows(_ context.Context, rows []models.NewCalculation, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !createdAt.After(m.lastAt) {
		createdAt = m.lastAt.Add(time.Microsecond)
	}
	m.lastAt = createdAt
	for _, r := range rows {
		m.lastRow++
		m.rows = append(m.rows, models.Calculation{
			ID:         m.lastRow,
			UserID:     r.UserID,
			Hours:      r.Hours,
			Power:      r.Power,
			CostPerKWh: r.CostPerKWh,
			TotalCost:  r.TotalCost,
			CreatedAt:  createdAt,
		})
	}
	return nil
}

// Rows returns a copy of the stored rows matching keep, in insertion order.
func (m *Memory) Rows(_ context.Context, keep func(models.Calculation) bool) []models.Calculation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Calculation, 0, len(m.rows))
	for _, r := range m.rows {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	return out
}
