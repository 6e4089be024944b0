package quiren

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
)

// Config selects the behavior of one session.
type Config struct {
	Dir    string
	Delete bool // honor deletion-by-omission
	Retry  bool // re-open the editor after a failure instead of aborting
	DryRun bool // show the plan and confirm before touching anything
	Trash  bool // move deleted files to the trash instead of unlinking
}

type App struct {
	cfg    *Config
	logger zerolog.Logger
}

func NewApp(cfg *Config) *App {
	return &App{cfg: cfg, logger: getLogger("app")}
}

// Session states. A session only moves forward, except for the two
// explicit backward transitions into editing: a rejected dry-run plan,
// and a failure while --retry is set.
type sessionState int

const (
	stateEditing sessionState = iota
	stateResolving
	stateExecuting
	stateDone
	stateFailed
)

// Run drives one full session: snapshot, edit, resolve, execute.
// Nothing on disk changes before the executing state is entered; every
// classification and resolution error aborts with zero side effects.
func (a *App) Run(ctx context.Context) (*Summary, error) {
	snap, err := TakeSnapshot(a.cfg.Dir)
	if err != nil {
		return nil, err
	}
	return a.runSession(ctx, snap)
}

func (a *App) runSession(ctx context.Context, snap *Snapshot) (*Summary, error) {
	var (
		listing string
		lines   []string
		plan    *Plan
		outside []string // names reserved beyond the snapshot, retry rounds only
		err     error
	)
	summary := &Summary{}

	trashDir := ""
	if a.cfg.Trash {
		trashDir = TrashRoot()
	}

	defer func() {
		if listing != "" {
			os.Remove(listing)
		}
	}()

	state := stateEditing
	freshListing := true
	for {
		switch state {
		case stateEditing:
			if freshListing {
				if listing != "" {
					os.Remove(listing)
				}
				if listing, err = WriteListing(snap); err != nil {
					return summary, err
				}
				freshListing = false
			}
			if err = RunEditor(ctx, listing); err != nil {
				state = stateFailed
				break
			}
			if lines, err = ReadListing(listing); err != nil {
				state = stateFailed
				break
			}
			state = stateResolving

		case stateResolving:
			var ops []PlannedOp
			if ops, err = InterpretEdits(snap, lines, a.cfg.Delete); err != nil {
				state = stateFailed
				break
			}
			if plan, err = Resolve(snap, ops, outside); err != nil {
				state = stateFailed
				break
			}
			if plan.Empty() {
				summary.Message = "No changes."
				state = stateDone
				break
			}
			if a.cfg.DryRun {
				ok, cerr := ConfirmPlan(plan, a.cfg.Trash)
				if cerr != nil {
					err = cerr
					state = stateFailed
					break
				}
				if !ok {
					// Re-open the listing as the user last left it.
					state = stateEditing
					break
				}
			}
			state = stateExecuting

		case stateExecuting:
			var part *Summary
			part, err = NewExecutor(trashDir).Apply(snap, plan)
			summary.merge(part)
			if err != nil {
				state = stateFailed
				break
			}
			state = stateDone

		case stateDone:
			return summary, nil

		case stateFailed:
			if !a.cfg.Retry {
				return summary, err
			}
			var applyErr *ApplyError
			if errors.As(err, &applyErr) {
				// Partial mutation: scope the next round to the
				// entries that never reached their final state. The
				// rest of the directory, settled names included,
				// stays reserved for the next resolution.
				if len(applyErr.Unresolved) == 0 {
					return summary, err
				}
				snap = subSnapshot(snap.Dir, applyErr.Unresolved)
				names, rerr := reservedNames(snap)
				if rerr != nil {
					return summary, rerr
				}
				outside = names
				freshListing = true
			}
			a.logger.Debug().Err(err).Msg("Session failed, re-entering editor")
			promptRetry(err)
			err = nil
			state = stateEditing
		}
	}
}

// subSnapshot renumbers unresolved entries into a snapshot of their
// own, under their current on-disk names.
func subSnapshot(dir string, entries []Entry) *Snapshot {
	sub := &Snapshot{Dir: dir, Entries: make([]Entry, len(entries))}
	for i, e := range entries {
		sub.Entries[i] = Entry{Name: e.Name, Index: i}
	}
	return sub
}
