// ABOUTME: Reconciler syncs a record's tag links with the names given at save time.
// ABOUTME: Diffs by name, creates missing tags when allowed, links and unlinks.

package tagger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Reconciler applies tag input to records through a TagStore. It is not
// safe to reconcile the same record from two goroutines at once.
type Reconciler struct {
	store    TagStore
	cfg      Config
	validate NameValidator
	logger   *zap.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNameValidator rejects names for which v returns false.
func WithNameValidator(v NameValidator) Option {
	return func(r *Reconciler) {
		r.validate = v
	}
}

// NewReconciler checks cfg and returns a Reconciler bound to store.
func NewReconciler(store TagStore, cfg Config, opts ...Option) (*Reconciler, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil tag store", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Reconciler{
		store:  store,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the configuration the reconciler was built with.
func (r *Reconciler) Config() Config {
	return r.cfg
}

// Issue is a per-name problem that did not stop the reconciliation.
type Issue struct {
	Name string
	Op   string
	Err  error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s tag %q: %v", i.Op, i.Name, i.Err)
}

// Outcome lists what a reconciliation did.
type Outcome struct {
	Created  []string
	Linked   []string
	Unlinked []string
	// Skipped holds names that were not linked because creation is disabled
	// or the name validator rejected them.
	Skipped []string
	Issues  []Issue
}

// Changed reports whether any tag or link was written.
func (o *Outcome) Changed() bool {
	return len(o.Created) > 0 || len(o.Linked) > 0 || len(o.Unlinked) > 0
}

// Err joins the issues into one error, or returns nil when there were none.
func (o *Outcome) Err() error {
	errs := make([]error, 0, len(o.Issues))
	for _, issue := range o.Issues {
		errs = append(errs, issue)
	}
	return errors.Join(errs...)
}

// Reconcile makes the links of recordID match in. isNew skips reading the
// current links. A nil in leaves the record untouched; an empty one removes
// every link. Store failures other than tag creation abort the run with an
// *OpError; work done before the failure is kept.
func (r *Reconciler) Reconcile(ctx context.Context, recordID string, isNew bool, in Input) (*Outcome, error) {
	out := &Outcome{}
	if in == nil {
		return out, nil
	}

	var oldNames []string
	if !isNew {
		names, err := r.store.CurrentTagNames(ctx, recordID)
		if err != nil {
			return out, &OpError{Op: OpCurrent, RecordID: recordID, Err: err}
		}
		oldNames = names
	}
	old := make(map[string]struct{}, len(oldNames))
	for _, name := range oldNames {
		old[name] = struct{}{}
	}

	newNames := r.accepted(Normalize(in, r.cfg.Delimiter), out)
	wanted := make(map[string]struct{}, len(newNames))
	for _, name := range newNames {
		wanted[name] = struct{}{}
	}

	for _, name := range newNames {
		id, found, err := r.store.FindTagID(ctx, name)
		if err != nil {
			return out, &OpError{Op: OpFind, RecordID: recordID, Name: name, Err: err}
		}
		if found {
			if _, linked := old[name]; linked {
				continue
			}
			if err := r.link(ctx, recordID, name, id, out); err != nil {
				return out, err
			}
			continue
		}

		if !r.cfg.AllowTagCreation {
			r.logger.Debug("tag creation disabled, skipping", zap.String("tag", name))
			out.Skipped = append(out.Skipped, name)
			continue
		}

		id, ok, err := r.create(ctx, recordID, name, out)
		if err != nil {
			return out, err
		}
		if !ok {
			continue
		}
		if err := r.link(ctx, recordID, name, id, out); err != nil {
			return out, err
		}
	}

	if isNew {
		return out, nil
	}

	for _, name := range oldNames {
		if _, keep := wanted[name]; keep {
			continue
		}
		id, found, err := r.store.FindTagID(ctx, name)
		if err != nil {
			return out, &OpError{Op: OpFind, RecordID: recordID, Name: name, Err: err}
		}
		if !found {
			continue
		}
		if err := r.store.Unlink(ctx, recordID, id); err != nil {
			return out, &OpError{Op: OpUnlink, RecordID: recordID, Name: name, Err: err}
		}
		r.logger.Debug("unlinked tag", zap.String("record", recordID), zap.String("tag", name), zap.Int64("tag_id", id))
		out.Unlinked = append(out.Unlinked, name)
	}

	return out, nil
}

func (r *Reconciler) accepted(names []string, out *Outcome) []string {
	if r.validate == nil {
		return names
	}
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if r.validate(name) {
			kept = append(kept, name)
			continue
		}
		r.logger.Debug("tag name rejected by validator", zap.String("tag", name))
		out.Skipped = append(out.Skipped, name)
	}
	return kept
}

// create inserts name and resolves its id. A concurrent insert of the same
// name is resolved by one more lookup. Any other failure becomes an Issue
// and ok is false.
func (r *Reconciler) create(ctx context.Context, recordID, name string, out *Outcome) (id int64, ok bool, err error) {
	id, cerr := r.store.CreateTag(ctx, name)
	switch {
	case cerr == nil:
		out.Created = append(out.Created, name)
		r.logger.Debug("created tag", zap.String("tag", name), zap.Int64("tag_id", id))
		if id != 0 {
			return id, true, nil
		}
	case errors.Is(cerr, ErrDuplicateTag):
		r.logger.Debug("tag created concurrently, resolving", zap.String("tag", name))
	default:
		r.logger.Warn("tag creation failed", zap.String("record", recordID), zap.String("tag", name), zap.Error(cerr))
		out.Issues = append(out.Issues, Issue{Name: name, Op: OpCreate, Err: cerr})
		return 0, false, nil
	}

	id, found, err := r.store.FindTagID(ctx, name)
	if err != nil {
		return 0, false, &OpError{Op: OpFind, RecordID: recordID, Name: name, Err: err}
	}
	if !found {
		issue := Issue{Name: name, Op: OpCreate, Err: errors.New("tag not found after create")}
		r.logger.Warn("created tag not visible", zap.String("record", recordID), zap.String("tag", name))
		out.Issues = append(out.Issues, issue)
		return 0, false, nil
	}
	return id, true, nil
}

func (r *Reconciler) link(ctx context.Context, recordID, name string, id int64, out *Outcome) error {
	if err := r.store.Link(ctx, recordID, id); err != nil {
		return &OpError{Op: OpLink, RecordID: recordID, Name: name, Err: err}
	}
	r.logger.Debug("linked tag", zap.String("record", recordID), zap.String("tag", name), zap.Int64("tag_id", id))
	out.Linked = append(out.Linked, name)
	return nil
}
