package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Request describes a JSON call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// DoJSON sends r through d, decoding a 2xx body into out when out is
// non-nil. Non-2xx answers are mapped with ResponseError. service names the
// remote in error messages.
func DoJSON(ctx context.Context, d Doer, service string, r Request, out any) error {
	_, err := DoJSONHeader(ctx, d, service, r, out)
	return err
}

// DoJSONHeader is DoJSON that also returns the response headers of a
// successful call.
func DoJSONHeader(ctx context.Context, d Doer, service string, r Request, out any) (http.Header, error) {
	var body io.Reader = http.NoBody
	if r.Body != nil {
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", service, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", service, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.Do(ctx, req)
	if err != nil {
		return nil, AsUnavailable(err, service)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ResponseError(resp, service)
	}
	defer func() { _ = resp.Body.Close() }()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", service, err)
	}
	return resp.Header, nil
}
