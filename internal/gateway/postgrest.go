package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/konselapp/konsel_backend/config"
)

// HTTPGateway talks to a PostgREST-compatible endpoint. Rows cross the wire
// as JSON arrays; filters become query-string operators.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	schema  string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPGateway(cfg config.GatewayConfig, logger *slog.Logger) *HTTPGateway {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		schema:  cfg.Schema,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *HTTPGateway) Select(ctx context.Context, q Query, dest any) error {
	if err := validateQuery(q); err != nil {
		return err
	}

	params := url.Values{}
	for _, f := range q.Filters {
		k, v := encodeFilter(f)
		params.Add(k, v)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := g.do(ctx, http.MethodGet, q.Collection, params, nil, "")
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: decode %s rows: %v", ErrRemote, q.Collection, err)
	}
	return nil
}

func (g *HTTPGateway) Insert(ctx context.Context, collection string, row any, dest any) error {
	if collection == "" {
		return fmt.Errorf("empty collection name")
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", collection, err)
	}

	body, err := g.do(ctx, http.MethodPost, collection, nil, payload, "return=representation")
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}

	// PostgREST returns the inserted rows as an array.
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("%w: decode inserted %s row: %v", ErrRemote, collection, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: insert into %s returned no row", ErrRemote, collection)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("%w: decode inserted %s row: %v", ErrRemote, collection, err)
	}
	return nil
}

func (g *HTTPGateway) Update(ctx context.Context, collection string, filters []Filter, patch map[string]any) (int, error) {
	if collection == "" {
		return 0, fmt.Errorf("empty collection name")
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("empty patch for %s", collection)
	}

	params := url.Values{}
	for _, f := range filters {
		if err := validateFilter(f); err != nil {
			return 0, err
		}
		k, v := encodeFilter(f)
		params.Add(k, v)
	}

	payload, err := json.Marshal(patch)
	if err != nil {
		return 0, fmt.Errorf("encode %s patch: %w", collection, err)
	}

	body, err := g.do(ctx, http.MethodPatch, collection, params, payload, "return=representation")
	if err != nil {
		return 0, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("%w: decode updated %s rows: %v", ErrRemote, collection, err)
	}
	return len(rows), nil
}

func (g *HTTPGateway) Delete(ctx context.Context, collection string, filters []Filter) (int, error) {
	if collection == "" {
		return 0, fmt.Errorf("empty collection name")
	}
	if len(filters) == 0 {
		return 0, fmt.Errorf("refusing unfiltered delete on %s", collection)
	}

	params := url.Values{}
	for _, f := range filters {
		if err := validateFilter(f); err != nil {
			return 0, err
		}
		k, v := encodeFilter(f)
		params.Add(k, v)
	}

	body, err := g.do(ctx, http.MethodDelete, collection, params, nil, "return=representation")
	if err != nil {
		return 0, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("%w: decode deleted %s rows: %v", ErrRemote, collection, err)
	}
	return len(rows), nil
}

func (g *HTTPGateway) do(ctx context.Context, method, collection string, params url.Values, payload []byte, prefer string) ([]byte, error) {
	endpoint := g.baseURL + "/" + collection
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("apikey", g.apiKey)
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	if g.schema != "" {
		req.Header.Set("Accept-Profile", g.schema)
		req.Header.Set("Content-Profile", g.schema)
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRemote, method, collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrRemote, collection, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Error("gateway request failed",
			"method", method,
			"collection", collection,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrRemote, method, collection, resp.StatusCode)
	}
	return body, nil
}

// encodeFilter renders a Filter as a PostgREST query pair.
func encodeFilter(f Filter) (string, string) {
	switch f.Op {
	case OpIn:
		parts := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			parts = append(parts, fmt.Sprint(v))
		}
		return f.Column, "in.(" + strings.Join(parts, ",") + ")"
	case OpContains:
		return f.Column, "ilike.*" + fmt.Sprint(f.Value) + "*"
	default:
		return f.Column, "eq." + fmt.Sprint(f.Value)
	}
}
