// Package repo persists the planner's collections as JSON documents in a
// store.KV, one document per key, mirroring the browser's localStorage
// layout (travel-trips, travel-favorites, travel-visited). Every write
// replaces the whole document. No business rules live here.
package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/pkordes/pocket-guide/backend/internal/store"
)

// Keys of the persisted documents.
const (
	TripsKey     = "travel-trips"
	FavoritesKey = "travel-favorites"
	VisitedKey   = "travel-visited"
)

// loadJSON decodes the document under key into a T. A missing key yields the
// zero T. A document that fails to decode is logged and also yields the zero
// T, so one corrupt write never locks the user out of the planner.
func loadJSON[T any](ctx context.Context, kv store.KV, log *slog.Logger, key string) (T, error) {
	var out T
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.WarnContext(ctx, "discarding malformed persisted document", "key", key, "error", err)
		var zero T
		return zero, nil
	}
	return out, nil
}

func saveJSON(ctx context.Context, kv store.KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}

func componentLogger(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		log = slog.Default()
	}
	return log.With("component", name)
}
