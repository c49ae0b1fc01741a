package cas

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"casview/internal/tree"
)

var ErrCycle = errors.New("directory contains itself")

const defaultAggregateLimit = 8

// Aggregator computes the total file bytes under a directory. Totals are
// memoized by digest key, so a subtree shared by several directories is
// walked once.
type Aggregator struct {
	resolver *Resolver
	limit    int
	logger   *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	memo  map[string]int64
}

func NewAggregator(resolver *Resolver, limit int, logger *zap.Logger) *Aggregator {
	if limit <= 0 {
		limit = defaultAggregateLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		resolver: resolver,
		limit:    limit,
		logger:   logger,
		memo:     make(map[string]int64),
	}
}

// Cached returns a previously computed total.
func (a *Aggregator) Cached(key string) (int64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	size, ok := a.memo[key]
	return size, ok
}

// Total returns the subtree size of the directory with the given key.
func (a *Aggregator) Total(ctx context.Context, key string) (int64, error) {
	return a.total(ctx, key, nil)
}

// ancestors is the chain of keys from the requested root down to the
// current directory.
type ancestors struct {
	key    string
	parent *ancestors
}

func (p *ancestors) contains(key string) bool {
	for ; p != nil; p = p.parent {
		if p.key == key {
			return true
		}
	}
	return false
}

func (a *Aggregator) total(ctx context.Context, key string, path *ancestors) (int64, error) {
	if size, ok := a.Cached(key); ok {
		return size, nil
	}
	if path.contains(key) {
		return 0, fmt.Errorf("%s: %w", key, ErrCycle)
	}
	path = &ancestors{key: key, parent: path}

	v, err, _ := a.group.Do(key, func() (interface{}, error) {
		// A flight for key may have finished since the check above
		if size, ok := a.Cached(key); ok {
			return size, nil
		}

		children, err := a.resolver.Resolve(ctx, key)
		if err != nil {
			return int64(0), err
		}

		var (
			mu       sync.Mutex
			total    int64
			subtotal int64
		)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.limit)

		for _, child := range children {
			if child.Kind == tree.KindFile {
				if child.Digest != nil {
					subtotal += child.Digest.SizeBytes
				}
				continue
			}

			childKey := child.Key()
			g.Go(func() error {
				size, err := a.total(gctx, childKey, path)
				if err != nil {
					return err
				}
				mu.Lock()
				total += size
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return int64(0), err
		}
		total += subtotal

		a.mu.Lock()
		a.memo[key] = total
		a.mu.Unlock()
		a.logger.Debug("aggregated directory size", zap.String("key", key), zap.Int64("bytes", total))
		return total, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}
