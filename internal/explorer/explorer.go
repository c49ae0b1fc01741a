// Package explorer owns the view state of one tree and connects it to the
// directory resolver and size aggregator.
package explorer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"casview/internal/cas"
	"casview/internal/digest"
	"casview/internal/tree"
	"casview/internal/view"
)

type Options struct {
	AggregateLimit int
	Logger         *zap.Logger
	FormatBytes    func(int64) string
	FormatDigest   func(digest.Digest) string
}

// Update carries the result of fetching one directory. Children is nil
// when Err is set; Sizes holds whatever totals could be computed.
type Update struct {
	Key      string
	Children []tree.Node
	Sizes    map[string]int64
	Err      error
}

// Explorer is the container of a tree view. Toggle, Apply, Rows and Settle
// must be called from one goroutine; Fetch may run anywhere.
type Explorer struct {
	root     tree.Node
	state    *view.State
	renderer *view.Renderer
	resolver *cas.Resolver
	sizes    *cas.Aggregator
	logger   *zap.Logger

	pending []string
	queued  map[string]bool
}

func New(root tree.Node, store cas.Store, opts Options) *Explorer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	resolver := cas.NewResolver(store, logger)
	e := &Explorer{
		root:     root,
		state:    view.NewState(),
		resolver: resolver,
		sizes:    cas.NewAggregator(resolver, opts.AggregateLimit, logger),
		logger:   logger,
		queued:   make(map[string]bool),
	}

	e.renderer = view.NewRenderer(e.state, e.Toggle)
	if opts.FormatBytes != nil {
		e.renderer.FormatBytes = opts.FormatBytes
	}
	if opts.FormatDigest != nil {
		e.renderer.FormatDigest = opts.FormatDigest
	}
	return e
}

func (e *Explorer) Root() tree.Node {
	return e.root
}

func (e *Explorer) State() *view.State {
	return e.state
}

func (e *Explorer) Renderer() *view.Renderer {
	return e.renderer
}

// Rows renders the whole tree from the root.
func (e *Explorer) Rows() []view.Row {
	return e.renderer.Render(e.root)
}

// Toggle is the view's toggle callback. Expanding a directory whose
// listing is not loaded queues it for Fetch.
func (e *Explorer) Toggle(node tree.Node) {
	expanded := e.state.Toggle(node)
	e.logger.Debug("toggled node",
		zap.String("name", node.Name),
		zap.String("key", node.Key()),
		zap.Bool("expanded", expanded))

	if expanded && node.IsDir() {
		e.enqueue(node.Key())
	}
}

// ExpandKey marks key expanded without toggling and queues its listing.
func (e *Explorer) ExpandKey(key string) {
	e.state.Expanded[key] = true
	e.enqueue(key)
}

func (e *Explorer) enqueue(key string) {
	if e.state.HasChildren(key) || e.queued[key] {
		return
	}
	e.queued[key] = true
	e.pending = append(e.pending, key)
}

// Pending returns the keys queued since the last call.
func (e *Explorer) Pending() []string {
	keys := e.pending
	e.pending = nil
	return keys
}

// Fetch resolves the listing for key and the totals for key and its child
// directories. It does not touch the view state.
func (e *Explorer) Fetch(ctx context.Context, key string) Update {
	u := Update{Key: key, Sizes: make(map[string]int64)}

	children, err := e.resolver.Resolve(ctx, key)
	if err != nil {
		u.Err = err
		return u
	}
	u.Children = children

	targets := []string{key}
	for _, child := range children {
		if child.IsDir() {
			targets = append(targets, child.Key())
		}
	}
	for _, target := range targets {
		if _, ok := u.Sizes[target]; ok {
			continue
		}
		total, err := e.sizes.Total(ctx, target)
		if err != nil {
			e.logger.Debug("subtree size unavailable", zap.String("key", target), zap.Error(err))
			continue
		}
		u.Sizes[target] = total
	}

	return u
}

// Apply stores a fetch result. A failed fetch leaves the children entry
// absent, which renders as an empty directory.
func (e *Explorer) Apply(u Update) {
	delete(e.queued, u.Key)

	if u.Err == nil {
		e.state.SetChildren(u.Key, u.Children)
	}
	for key, total := range u.Sizes {
		e.state.SetSize(key, total)
	}
}

// Settle fetches and applies every queued listing synchronously. Fetch
// failures are logged and skipped; only ctx errors are returned.
func (e *Explorer) Settle(ctx context.Context) error {
	for {
		keys := e.Pending()
		if len(keys) == 0 {
			return nil
		}
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("failed to settle tree: %w", err)
			}
			u := e.Fetch(ctx, key)
			if u.Err != nil {
				e.logger.Warn("directory listing unavailable", zap.String("key", key), zap.Error(u.Err))
			}
			e.Apply(u)
		}
	}
}

// ExpandAll expands every directory visible within depth levels of the
// root, loading listings as it goes.
func (e *Explorer) ExpandAll(ctx context.Context, depth int) error {
	for level := 0; level < depth; level++ {
		for _, row := range e.Rows() {
			if row.Depth == level && row.Node.IsDir() && !row.Expanded {
				e.ExpandKey(row.Key)
			}
		}
		if err := e.Settle(ctx); err != nil {
			return err
		}
	}
	return nil
}
