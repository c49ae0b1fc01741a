package cas

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"casview/internal/tree"
)

// Resolver looks up directory children. Concurrent requests for the same key
// share one store call.
type Resolver struct {
	store  Store
	group  singleflight.Group
	logger *zap.Logger
}

func NewResolver(store Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, key string) ([]tree.Node, error) {
	v, err, shared := r.group.Do(key, func() (interface{}, error) {
		return r.store.Directory(ctx, key)
	})
	if err != nil {
		r.logger.Warn("failed to resolve directory", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve %s: %w", key, err)
	}

	children := v.([]tree.Node)
	r.logger.Debug("resolved directory",
		zap.String("key", key),
		zap.Int("children", len(children)),
		zap.Bool("shared", shared))

	// Callers sharing a result must not alias one slice
	return append([]tree.Node(nil), children...), nil
}
