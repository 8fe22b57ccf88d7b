package notehub

import (
	"log/slog"
	"time"

	"github.com/aretw0/notehub/internal/config"
	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/gh"
	"github.com/aretw0/notehub/pkg/reconcile"
)

// options holds the internal configuration for notehub operations.
type options struct {
	cacheRoot string
	store     core.Store
	logger    *slog.Logger
	editor    string
	pattern   string
	debounce  time.Duration
	onSync    func(reconcile.Summary)
}

// Option defines a functional option for configuring notehub operations.
type Option func(*options)

// WithCacheRoot sets the cache location. Without it the config file and
// ~/.notehub apply.
func WithCacheRoot(root string) Option {
	return func(o *options) {
		o.cacheRoot = root
	}
}

// WithStore injects a custom note store (e.g. a fake in tests). The
// default store shells out to the gh CLI.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger for all operations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEditor overrides editor selection for Edit.
func WithEditor(editor string) Option {
	return func(o *options) {
		o.editor = editor
	}
}

// WithPattern narrows batch operations to entries matching a
// host/org/repo/number glob pattern.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithDebounce sets how long Watch lets changes settle before syncing.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithSyncHook registers a callback receiving each Watch cycle summary.
func WithSyncHook(fn func(reconcile.Summary)) Option {
	return func(o *options) {
		o.onSync = fn
	}
}

func defaultOptions() *options {
	return &options{}
}

// finish fills the gaps from the config file and defaults. Library
// callers usually pass nothing; the CLI passes everything explicitly.
func (o *options) finish() error {
	if o.cacheRoot == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		root, err := cfg.ResolveCacheRoot()
		if err != nil {
			return err
		}
		o.cacheRoot = root
		if o.editor == "" {
			o.editor = cfg.Editor
		}
	}
	if o.store == nil {
		o.store = gh.NewClient(o.logger)
	}
	return nil
}

func buildOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.finish(); err != nil {
		return nil, err
	}
	return o, nil
}
