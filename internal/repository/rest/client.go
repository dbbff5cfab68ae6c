// Package rest reads and writes the catalog and settings through a hosted
// PostgREST API (/rest/v1/<table>), the storefront's backend-as-a-service.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfonso816/Tienda/pkg/httpclient"
)

const service = "catalog backend"

// Client issues authenticated PostgREST calls.
type Client struct {
	base   string
	apiKey string
	doer   httpclient.Doer
}

// NewClient builds a client for the project at baseURL, for example
// https://<project>.supabase.co. doer is usually a *httpclient.BreakerClient.
func NewClient(baseURL, apiKey string, doer httpclient.Doer) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/") + "/rest/v1/", apiKey: apiKey, doer: doer}
}

func (c *Client) url(table string, q url.Values) string {
	u := c.base + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) header(prefer ...string) http.Header {
	h := http.Header{}
	h.Set("apikey", c.apiKey)
	h.Set("Authorization", "Bearer "+c.apiKey)
	for _, p := range prefer {
		h.Add("Prefer", p)
	}
	return h
}

func (c *Client) get(ctx context.Context, table string, q url.Values, out any) error {
	return httpclient.DoJSON(ctx, c.doer, service, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.url(table, q),
		Header: c.header(),
	}, out)
}

// getCounted also asks for the exact match count and returns it.
func (c *Client) getCounted(ctx context.Context, table string, q url.Values, out any) (int, error) {
	h, err := httpclient.DoJSONHeader(ctx, c.doer, service, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.url(table, q),
		Header: c.header("count=exact"),
	}, out)
	if err != nil {
		return 0, err
	}
	return parseContentRange(h.Get("Content-Range"))
}

func (c *Client) insert(ctx context.Context, table string, row any, prefer ...string) error {
	return httpclient.DoJSON(ctx, c.doer, service, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.url(table, nil),
		Header: c.header(append([]string{"return=minimal"}, prefer...)...),
		Body:   []any{row},
	}, nil)
}

// delete removes matching rows and reports how many went.
func (c *Client) delete(ctx context.Context, table string, q url.Values) (int, error) {
	var deleted []map[string]any
	err := httpclient.DoJSON(ctx, c.doer, service, httpclient.Request{
		Method: http.MethodDelete,
		URL:    c.url(table, q),
		Header: c.header("return=representation"),
	}, &deleted)
	return len(deleted), err
}

// parseContentRange reads the total from "0-9/42" or "*/0".
func parseContentRange(v string) (int, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return 0, fmt.Errorf("%s: malformed Content-Range %q", service, v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("%s: Content-Range %q has no count", service, v)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("%s: malformed Content-Range %q: %w", service, v, err)
	}
	return n, nil
}

func eq(v string) string { return "eq." + v }

// Ping reads one category id, for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	var rows []struct {
		ID string `json:"id"`
	}
	return c.get(ctx, "categories", url.Values{"select": {"id"}, "limit": {"1"}}, &rows)
}
