package transactor

import (
	"context"
	"sync"
)

// Transactor runs function in a transaction, committed when function succeeds and rolled back otherwise.
// Context passed to the function carries the transaction and must be used for every statement.
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}

// TransactorFunc adapts plain function to Transactor
type TransactorFunc func(context.Context, func(context.Context) error) error

func (f TransactorFunc) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) error {
	return f(ctx, txFunc)
}

// Nop runs function without any transaction, useful for stores without transactional guarantees and tests
var Nop Transactor = TransactorFunc(func(ctx context.Context, txFunc func(context.Context) error) error {
	return txFunc(ctx)
})

type commitHooksKey struct{}

// CommitHooks collects functions deferred with AfterCommit until the owning transaction commits
type CommitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// WithCommitHooks marks ctx as transactional, hooks registered through returned context
// must be run by the transactor once commit succeeds and discarded otherwise
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := &CommitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, hooks), hooks
}

// Run executes collected hooks in registration order
func (h *CommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

func (h *CommitHooks) add(fn func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *CommitHooks) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = nil
}

// AfterCommit defers fn until transaction carried by ctx commits.
// Outside of transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if hooks, ok := ctx.Value(commitHooksKey{}).(*CommitHooks); ok {
		hooks.add(fn)
		return
	}
	fn(ctx)
}

// InTransaction reports whether ctx belongs to a transaction which hasn't committed yet
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(commitHooksKey{}).(*CommitHooks)
	return ok
}
