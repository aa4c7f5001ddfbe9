package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const restPrefix = "/rest/v1/"

// RestClient reads and writes table rows through the backend's row API.
type RestClient struct {
	base *BaseClient
}

// NewRestClient returns a row client sharing base.
func NewRestClient(base *BaseClient) *RestClient {
	return &RestClient{base: base}
}

// Query narrows a select. Eq holds column equality filters; Order the
// sort columns applied in sequence.
type Query struct {
	Columns string
	Eq      map[string]string
	Order   []Order
	Limit   int
}

// Order sorts by Column.
type Order struct {
	Column    string
	Ascending bool
}

func (q Query) values() url.Values {
	v := url.Values{}
	cols := q.Columns
	if cols == "" {
		cols = "*"
	}
	v.Set("select", cols)
	for col, val := range q.Eq {
		v.Set(col, "eq."+val)
	}
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Insert writes rows (a slice or a single struct) into table.
func (c *RestClient) Insert(ctx context.Context, accessToken, table string, rows any) error {
	return c.base.do(ctx, request{
		method:  http.MethodPost,
		path:    restPrefix + url.PathEscape(table),
		token:   accessToken,
		body:    rows,
		headers: map[string]string{"Prefer": "return=minimal"},
	}, nil)
}

// Select reads rows of table matching q into out (a pointer to slice).
func (c *RestClient) Select(ctx context.Context, accessToken, table string, q Query, out any) error {
	return c.base.do(ctx, request{
		method: http.MethodGet,
		path:   restPrefix + url.PathEscape(table) + "?" + q.values().Encode(),
		token:  accessToken,
	}, out)
}
