package baas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds one request against a table of the REST surface.
type Query struct {
	c      *Client
	table  string
	params url.Values
	order  []string
	filter bool
}

func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

func (q *Query) Select(columns ...string) *Query {
	if len(columns) == 0 {
		q.params.Set("select", "*")
		return q
	}
	q.params.Set("select", strings.Join(columns, ","))
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	q.filter = true
	return q
}

func (q *Query) In(column string, values ...string) *Query {
	q.params.Add(column, "in.("+strings.Join(values, ",")+")")
	q.filter = true
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) values() url.Values {
	v := url.Values{}
	for k, vs := range q.params {
		v[k] = append([]string(nil), vs...)
	}
	if len(q.order) > 0 {
		v.Set("order", strings.Join(q.order, ","))
	}
	return v
}

func (q *Query) path() string {
	return "/rest/v1/" + url.PathEscape(q.table)
}

// Execute runs the select and decodes the rows into out.
func (q *Query) Execute(ctx context.Context, out any) error {
	v := q.values()
	if v.Get("select") == "" {
		v.Set("select", "*")
	}
	return q.c.do(ctx, request{method: http.MethodGet, path: q.path(), query: v}, out)
}

// Insert adds rows (a struct, map or slice) and decodes the stored rows into out.
func (q *Query) Insert(ctx context.Context, rows any, out any) error {
	return q.c.do(ctx, request{
		method: http.MethodPost,
		path:   q.path(),
		body:   rows,
		header: map[string]string{"Prefer": preferFor(out)},
	}, out)
}

// Update patches every row matched by the filters.
func (q *Query) Update(ctx context.Context, patch any, out any) error {
	if !q.filter {
		return ErrUnfiltered
	}
	return q.c.do(ctx, request{
		method: http.MethodPatch,
		path:   q.path(),
		query:  q.values(),
		body:   patch,
		header: map[string]string{"Prefer": preferFor(out)},
	}, out)
}

// Delete removes every row matched by the filters.
func (q *Query) Delete(ctx context.Context) error {
	if !q.filter {
		return ErrUnfiltered
	}
	return q.c.do(ctx, request{method: http.MethodDelete, path: q.path(), query: q.values()}, nil)
}

func preferFor(out any) string {
	if out == nil {
		return "return=minimal"
	}
	return "return=representation"
}
