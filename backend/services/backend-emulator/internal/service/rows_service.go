package service

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"powercalc/backend/libs/models"
	"powercalc/backend/libs/supabase"
	"powercalc/backend/services/backend-emulator/internal/repository"
)

// RowsService implements the row API for the calculations table. Rows are
// visible to and writable by their owner only.
type RowsService struct {
	repo   *repository.Memory
	logger *zap.Logger
	now    func() time.Time
}

// NewRowsService builds RowsService.
func NewRowsService(repo *repository.Memory, logger *zap.Logger) *RowsService {
	return &RowsService{repo: repo, logger: logger, now: time.Now}
}

// Insert stores the rows in body, a JSON object or array. caller is nil for
// anonymous requests.
func (s *RowsService) Insert(ctx context.Context, caller *supabase.Claims, table string, body []byte) error {
	if table != models.CalculationsTable {
		return unknownTable(table)
	}

	rows, err := decodeRows(body)
	if err != nil {
		return badBody(err)
	}
	if caller == nil {
		return rowSecurity(http.StatusUnauthorized, table)
	}
	for _, r := range rows {
		if r.UserID != caller.Subject {
			return rowSecurity(http.StatusForbidden, table)
		}
	}

	if err := s.repo.InsertRows(ctx, rows, s.now().UTC()); err != nil {
		return err
	}
	s.logger.Debug("rows inserted", zap.String("table", table), zap.Int("count", len(rows)), zap.String("user_id", caller.Subject))
	return nil
}

// Select lists the caller's rows filtered and ordered by the query
// parameters eq filters, order, limit and offset.
func (s *RowsService) Select(ctx context.Context, caller *supabase.Claims, table string, params url.Values) ([]models.Calculation, error) {
	if table != models.CalculationsTable {
		return nil, unknownTable(table)
	}

	filters := []func(models.Calculation) bool{}
	if caller == nil {
		filters = append(filters, func(models.Calculation) bool { return false })
	} else {
		owner := caller.Subject
		filters = append(filters, func(c models.Calculation) bool { return c.UserID == owner })
	}

	var (
		orders        []func(a, b models.Calculation) int
		limit, offset = -1, 0
	)
	for key, values := range params {
		for _, raw := range values {
			switch key {
			case "select":
				// Every column is always returned.
			case "order":
				parsed, err := parseOrder(table, raw)
				if err != nil {
					return nil, err
				}
				orders = append(orders, parsed...)
			case "limit", "offset":
				n, err := strconv.Atoi(raw)
				if err != nil || n < 0 {
					return nil, badFilter(key + "=" + raw)
				}
				if key == "limit" {
					limit = n
				} else {
					offset = n
				}
			default:
				f, err := parseEq(table, key, raw)
				if err != nil {
					return nil, err
				}
				filters = append(filters, f)
			}
		}
	}

	rows := s.repo.Rows(ctx, func(c models.Calculation) bool {
		for _, keep := range filters {
			if !keep(c) {
				return false
			}
		}
		return true
	})

	if len(orders) > 0 {
		slices.SortStableFunc(rows, func(a, b models.Calculation) int {
			for _, o := range orders {
				if c := o(a, b); c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if offset >= len(rows) {
		return []models.Calculation{}, nil
	}
	rows = rows[offset:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func decodeRows(body []byte) ([]models.NewCalculation, error) {
	trimmed := bytes.TrimSpace(body)
	var items []json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
	} else {
		items = []json.RawMessage{trimmed}
	}

	rows := make([]models.NewCalculation, 0, len(items))
	for _, item := range items {
		nan := models.Decimal(math.NaN())
		row := models.NewCalculation{Hours: nan, Power: nan, CostPerKWh: nan, TotalCost: nan}
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func numericColumn(column string) (func(models.Calculation) models.Decimal, bool) {
	switch column {
	case "hours":
		return func(c models.Calculation) models.Decimal { return c.Hours }, true
	case "power":
		return func(c models.Calculation) models.Decimal { return c.Power }, true
	case "cost_per_kwh":
		return func(c models.Calculation) models.Decimal { return c.CostPerKWh }, true
	case "total_cost":
		return func(c models.Calculation) models.Decimal { return c.TotalCost }, true
	}
	return nil, false
}

func parseEq(table, column, raw string) (func(models.Calculation) bool, error) {
	value, ok := strings.CutPrefix(raw, "eq.")
	if !ok {
		return nil, badFilter(column + "=" + raw)
	}

	switch column {
	case "user_id":
		return func(c models.Calculation) bool { return c.UserID == value }, nil
	case "id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, badFilter(column + "=" + raw)
		}
		return func(c models.Calculation) bool { return c.ID == id }, nil
	}

	get, ok := numericColumn(column)
	if !ok {
		return nil, unknownColumn(table, column)
	}
	want, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, badFilter(column + "=" + raw)
	}
	return func(c models.Calculation) bool { return get(c).Valid() && get(c).Float() == want }, nil
}

// parseOrder reads "col[.asc|.desc][.nullsfirst|.nullslast]" terms. Nulls
// sort last in either direction.
func parseOrder(table, raw string) ([]func(a, b models.Calculation) int, error) {
	var out []func(a, b models.Calculation) int
	for _, term := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(term), ".")
		column := parts[0]
		desc := false
		for _, mod := range parts[1:] {
			switch mod {
			case "asc":
			case "desc":
				desc = true
			case "nullsfirst", "nullslast":
			default:
				return nil, badFilter("order=" + raw)
			}
		}

		var compare func(a, b models.Calculation) int
		switch column {
		case "id":
			compare = func(a, b models.Calculation) int { return cmp.Compare(a.ID, b.ID) }
		case "user_id":
			compare = func(a, b models.Calculation) int { return strings.Compare(a.UserID, b.UserID) }
		case "created_at":
			compare = func(a, b models.Calculation) int { return a.CreatedAt.Compare(b.CreatedAt) }
		default:
			get, ok := numericColumn(column)
			if !ok {
				return nil, unknownColumn(table, column)
			}
			compare = func(a, b models.Calculation) int {
				av, bv := get(a), get(b)
				switch {
				case !av.Valid() && !bv.Valid():
					return 0
				case !av.Valid():
					if desc {
						return -1
					}
					return 1
				case !bv.Valid():
					if desc {
						return 1
					}
					return -1
				}
				return cmp.Compare(av.Float(), bv.Float())
			}
		}

		if desc {
			base := compare
			compare = func(a, b models.Calculation) int { return -base(a, b) }
		}
		out = append(out, compare)
	}
	return out, nil
}
