package quiren

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

// Executor applies one plan against the real filesystem, strictly in
// order, halting at the first failure. There is no locking: concurrent
// external modification is detected, not prevented, by checking each
// step's assumptions just before applying it.
type Executor struct {
	trashDir string // non-empty: deletions move here instead of unlinking
	logger   zerolog.Logger
}

func NewExecutor(trashDir string) *Executor {
	return &Executor{trashDir: trashDir, logger: getLogger("executor")}
}

// ApplyError reports exactly how far execution got: the failing step,
// the completed prefix, and the entries whose final state was never
// reached, listed by their current on-disk names so a retry session can
// be scoped to just those.
type ApplyError struct {
	StepIndex  int
	Step       Step
	Err        error
	Completed  []Step
	Unresolved []Entry
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("plan halted at step %d after %d completed steps: %v",
		e.StepIndex, len(e.Completed), e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Apply runs every step of the plan. On failure the returned Summary
// still covers the completed prefix; the error is always an *ApplyError.
func (x *Executor) Apply(snap *Snapshot, plan *Plan) (*Summary, error) {
	current := make(map[int]string, len(snap.Entries))
	for _, e := range snap.Entries {
		current[e.Index] = e.Name
	}

	summary := &Summary{}
	for i, step := range plan.Steps {
		if err := x.applyStep(plan.Dir, step); err != nil {
			x.logger.Error().Int("step", i).Str("from", step.From).Err(err).Msg("Plan halted")
			return summary, &ApplyError{
				StepIndex:  i,
				Step:       step,
				Err:        err,
				Completed:  plan.Steps[:i],
				Unresolved: unresolvedEntries(plan.Steps[i:], current),
			}
		}

		switch step.Kind {
		case StepRename:
			current[step.EntryIndex] = step.To
			if !step.Via {
				summary.Renamed = append(summary.Renamed,
					fmt.Sprintf("%s -> %s", snap.Entries[step.EntryIndex].Name, step.To))
			}
		case StepDelete:
			delete(current, step.EntryIndex)
			if x.trashDir != "" {
				summary.Trashed = append(summary.Trashed, step.From)
			} else {
				summary.Deleted = append(summary.Deleted, step.From)
			}
		}
	}
	return summary, nil
}

func (x *Executor) applyStep(dir string, step Step) error {
	src := filepath.Join(dir, step.From)
	if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
		return Newf(ErrRaceCondition, "%q unexpectedly missing", step.From)
	} else if err != nil {
		return Wrapf(err, ErrIO, "cannot stat %q", step.From)
	}

	switch step.Kind {
	case StepRename:
		dst := filepath.Join(dir, step.To)
		if _, err := os.Lstat(dst); err == nil {
			return Newf(ErrRaceCondition, "target %q unexpectedly exists", step.To)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Wrapf(err, ErrIO, "cannot stat %q", step.To)
		}
		if err := os.Rename(src, dst); err != nil {
			return Wrapf(err, ErrIO, "rename %q -> %q", step.From, step.To)
		}
		x.logger.Debug().Str("from", step.From).Str("to", step.To).Msg("Renamed")

	case StepDelete:
		if x.trashDir != "" {
			if err := trashFile(src, x.trashDir); err != nil {
				return Wrapf(err, ErrIO, "trash %q", step.From)
			}
		} else if err := os.Remove(src); err != nil {
			return Wrapf(err, ErrIO, "delete %q", step.From)
		}
		x.logger.Debug().Str("name", step.From).Msg("Deleted")
	}
	return nil
}

// unresolvedEntries maps steps that never ran back to the entries they
// serve, by each entry's current on-disk name. An entry half-moved into
// a temporary name is reported under that temporary name, which is
// where the file actually sits.
func unresolvedEntries(remaining []Step, current map[int]string) []Entry {
	seen := make(map[int]struct{}, len(remaining))
	var out []Entry
	for _, s := range remaining {
		if _, ok := seen[s.EntryIndex]; ok {
			continue
		}
		seen[s.EntryIndex] = struct{}{}
		if name, ok := current[s.EntryIndex]; ok {
			out = append(out, Entry{Index: s.EntryIndex, Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
