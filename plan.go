package quiren

import (
	"os"
	"strings"
)

// InterpretEdits aligns the edited lines to the snapshot positionally
// and classifies each entry as kept, renamed, or deleted. It is pure
// data transformation: no filesystem access and no collision reasoning,
// which belongs to Resolve.
//
// The edited listing may be shorter than the snapshot (trailing entries
// were deleted) but never longer: there is no way to create a file by
// adding a line.
func InterpretEdits(snap *Snapshot, lines []string, allowDelete bool) ([]PlannedOp, error) {
	if len(lines) > len(snap.Entries) {
		return nil, Newf(ErrMalformedEdit,
			"listing grew from %d to %d lines; lines cannot be added", len(snap.Entries), len(lines))
	}

	ops := make([]PlannedOp, len(snap.Entries))
	for i, e := range snap.Entries {
		var text string
		if i < len(lines) {
			text = lines[i]
		}

		switch {
		// An unchanged line is a keep even when the name itself is
		// whitespace-only, which is legal on POSIX filesystems; the
		// blank-line delete rule only applies to edited lines.
		case text == e.Name:
			ops[i] = PlannedOp{Entry: e, Kind: OpKeep}
		case strings.TrimSpace(text) == "":
			if !allowDelete {
				return nil, Newf(ErrUnsupportedDeletion,
					"entry %q was removed from the listing; deleting requires --delete", e.Name).
					WithDetail("entry", e.Name)
			}
			ops[i] = PlannedOp{Entry: e, Kind: OpDelete}
		default:
			if err := validateName(text); err != nil {
				return nil, Wrapf(err, ErrMalformedEdit, "entry %q", e.Name).
					WithDetail("entry", e.Name)
			}
			ops[i] = PlannedOp{Entry: e, Kind: OpRename, NewName: text}
		}
	}
	return ops, nil
}

// validateName rejects targets that are not a single path segment.
func validateName(name string) error {
	if name == "." || name == ".." {
		return Newf(ErrMalformedEdit, "%q is not a valid filename", name)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator) {
		return Newf(ErrMalformedEdit, "new name %q must not contain a path separator", name)
	}
	return nil
}
