package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryGateway is an in-process Gateway used by tests and the system init
// dry run. Rows live as generic JSON objects so the matching semantics stay
// identical to the remote store's.
type MemoryGateway struct {
	mu   sync.RWMutex
	rows map[string][]map[string]any
	now  func() time.Time
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		rows: make(map[string][]map[string]any),
		now:  time.Now,
	}
}

// SetClock overrides the timestamp source. Tests use it to pin created_at.
func (g *MemoryGateway) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

func (g *MemoryGateway) Select(ctx context.Context, q Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateQuery(q); err != nil {
		return err
	}

	g.mu.RLock()
	matched := make([]map[string]any, 0)
	for _, row := range g.rows[q.Collection] {
		if matchesAll(row, q.Filters) {
			matched = append(matched, row)
		}
	}
	g.mu.RUnlock()

	if q.OrderBy != "" {
		col := q.OrderBy
		desc := q.Descending
		sort.SliceStable(matched, func(i, j int) bool {
			less := lessValue(matched[i][col], matched[j][col])
			if desc {
				return !less && !equalValue(matched[i][col], matched[j][col])
			}
			return less
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	if dest == nil {
		return nil
	}
	return decodeVia(matched, dest)
}

func (g *MemoryGateway) Insert(ctx context.Context, collection string, row any, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if collection == "" {
		return fmt.Errorf("empty collection name")
	}

	obj := make(map[string]any)
	if err := decodeVia(row, &obj); err != nil {
		return fmt.Errorf("encode %s row: %w", collection, err)
	}

	g.mu.Lock()
	if v, ok := obj["id"]; !ok || v == "" || v == nil {
		obj["id"] = uuid.NewString()
	}
	if v, ok := obj["created_at"]; !ok || v == nil || v == "" || v == "0001-01-01T00:00:00Z" {
		// Fixed-width fraction keeps timestamps lexicographically ordered.
		obj["created_at"] = g.now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
	}
	g.rows[collection] = append(g.rows[collection], obj)
	g.mu.Unlock()

	if dest == nil {
		return nil
	}
	return decodeVia(obj, dest)
}

func (g *MemoryGateway) Update(ctx context.Context, collection string, filters []Filter, patch map[string]any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if collection == "" {
		return 0, fmt.Errorf("empty collection name")
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("empty patch for %s", collection)
	}
	for _, f := range filters {
		if err := validateFilter(f); err != nil {
			return 0, err
		}
	}

	normalized := make(map[string]any)
	if err := decodeVia(patch, &normalized); err != nil {
		return 0, fmt.Errorf("encode %s patch: %w", collection, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	count := 0
	for _, row := range g.rows[collection] {
		if !matchesAll(row, filters) {
			continue
		}
		for k, v := range normalized {
			row[k] = v
		}
		count++
	}
	return count, nil
}

func (g *MemoryGateway) Delete(ctx context.Context, collection string, filters []Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if collection == "" {
		return 0, fmt.Errorf("empty collection name")
	}
	if len(filters) == 0 {
		return 0, fmt.Errorf("refusing unfiltered delete on %s", collection)
	}
	for _, f := range filters {
		if err := validateFilter(f); err != nil {
			return 0, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.rows[collection][:0]
	count := 0
	for _, row := range g.rows[collection] {
		if matchesAll(row, filters) {
			count++
			continue
		}
		kept = append(kept, row)
	}
	g.rows[collection] = kept
	return count, nil
}

func matchesAll(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !matches(row, f) {
			return false
		}
	}
	return true
}

func matches(row map[string]any, f Filter) bool {
	got, ok := row[f.Column]
	if !ok {
		return false
	}
	switch f.Op {
	case OpEq:
		return fmt.Sprint(got) == fmt.Sprint(f.Value)
	case OpIn:
		for _, v := range f.Values {
			if fmt.Sprint(got) == fmt.Sprint(v) {
				return true
			}
		}
		return false
	case OpContains:
		return strings.Contains(
			strings.ToLower(fmt.Sprint(got)),
			strings.ToLower(fmt.Sprint(f.Value)),
		)
	default:
		return false
	}
}

func lessValue(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	// RFC 3339 timestamps order correctly as strings.
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func equalValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// decodeVia round-trips src through JSON into dest, giving the memory store
// the same field names and types the HTTP gateway produces.
func decodeVia(src, dest any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}
