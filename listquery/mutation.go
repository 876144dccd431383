package listquery

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog-admin/cache"
)

// ErrDeclined is returned when the user backs out of a destructive
// operation's confirmation prompt. The request is never sent.
var ErrDeclined = errors.New("listquery: operation declined")

// ConfirmFunc asks the user to approve a destructive operation. It blocks
// until the user answers.
type ConfirmFunc func(prompt string) bool

// Notifier surfaces mutation outcomes to the user.
type Notifier interface {
	// Success reports a completed mutation.
	Success(message string)
	// Failure reports a rejected or failed mutation. The form that issued it
	// stays open so the user can correct and retry.
	Failure(err error)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Failure(error)  {}

// RecordInvalidator drops per-record cache entries for a family. The record
// cache satisfies this through the DI wiring.
type RecordInvalidator interface {
	InvalidateFamily(family cache.Family)
}

// Operation is one create/update/delete/bulk-delete/toggle against a
// resource family.
type Operation struct {
	// Family to invalidate when the operation succeeds.
	Family cache.Family
	// Destructive operations go through the confirmation prompt first.
	Destructive bool
	// Prompt shown when confirming. Ignored for non-destructive operations.
	Prompt string
	// Message shown on success.
	Message string
	// Do performs the request.
	Do func(ctx context.Context) error
	// After runs once the caches are invalidated, e.g. resetting a list to
	// page 1 so a created item is visible, or clearing a bulk selection.
	After func()
}

// RunnerConfig configures a mutation runner.
type RunnerConfig struct {
	// Cache is the query cache to invalidate on success.
	Cache cache.Service
	// Records, when set, is invalidated alongside the query cache.
	Records RecordInvalidator
	// Confirm gates destructive operations. Nil declines everything.
	Confirm ConfirmFunc
	// Notify receives outcomes. Nil means NopNotifier.
	Notify Notifier
}

// Validate checks whether the configuration is usable.
func (cfg RunnerConfig) Validate() error {
	return validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Cache, validation.Required),
	)
}

// Runner executes mutations with the surrounding ceremony: confirmation for
// destructive operations, family invalidation on success, notification
// either way. Failures leave every cache entry untouched.
type Runner struct {
	cache   cache.Service
	records RecordInvalidator
	confirm ConfirmFunc
	notify  Notifier
}

// NewRunner builds a runner for the given configuration.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	notify := cfg.Notify
	if notify == nil {
		notify = NopNotifier{}
	}

	return &Runner{
		cache:   cfg.Cache,
		records: cfg.Records,
		confirm: cfg.Confirm,
		notify:  notify,
	}, nil
}

// Run executes one operation. Destructive operations prompt first; a decline
// returns ErrDeclined without sending anything. On success the operation's
// family, plus any extra families attached via cache.WithInvalidateFamilies,
// are invalidated in both caches before the after-hook runs.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	if op.Do == nil {
		return errors.New("listquery: operation requires a do function")
	}

	if op.Destructive {
		if r.confirm == nil || !r.confirm(op.Prompt) {
			return ErrDeclined
		}
	}

	if err := op.Do(ctx); err != nil {
		r.notify.Failure(err)
		return err
	}

	families := append([]cache.Family{op.Family}, cache.InvalidateFamiliesFromContext(ctx)...)
	for _, family := range families {
		if family == "" {
			continue
		}
		r.cache.Invalidate(family)
		if r.records != nil {
			r.records.InvalidateFamily(family)
		}
	}

	if op.Message != "" {
		r.notify.Success(op.Message)
	}
	if op.After != nil {
		op.After()
	}
	return nil
}
