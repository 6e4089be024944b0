package quiren

// Entry is one name captured from the directory at snapshot time.
// Identity is positional: edited lines refer to entries by line number,
// never by name, since names may collide while an edit is in flight.
type Entry struct {
	Name  string
	Index int
}

// Snapshot is the ordered directory listing one session operates on.
// It is captured once per session and never re-read.
type Snapshot struct {
	Dir     string
	Entries []Entry
}

// Names returns the entry names in snapshot order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Name
	}
	return names
}

type OpKind int

const (
	OpKeep OpKind = iota
	OpRename
	OpDelete
)

// PlannedOp is the classified intent for a single entry. Exactly one
// op exists per snapshot entry.
type PlannedOp struct {
	Entry   Entry
	Kind    OpKind
	NewName string // OpRename only
}

type StepKind int

const (
	StepRename StepKind = iota
	StepDelete
)

// Step is one concrete filesystem action. EntryIndex points back at the
// snapshot entry the step serves; a cycle broken through a temporary
// name produces two steps with the same index, the first marked Via.
type Step struct {
	Kind       StepKind
	From       string
	To         string // StepRename only
	EntryIndex int
	Via        bool // rename into a temporary name, not a final one
}

// Plan is the ordered action sequence for one directory. Applying any
// prefix of Steps in order never overwrites an existing, still-needed
// file; that is the resolver's contract.
type Plan struct {
	Dir   string
	Steps []Step
}

// Empty reports whether the plan performs no filesystem action.
func (p *Plan) Empty() bool {
	return len(p.Steps) == 0
}

// Summary reports what one session did, for terminal rendering.
type Summary struct {
	Renamed []string
	Deleted []string
	Trashed []string
	Message string
}

func (s *Summary) merge(other *Summary) {
	if other == nil {
		return
	}
	s.Renamed = append(s.Renamed, other.Renamed...)
	s.Deleted = append(s.Deleted, other.Deleted...)
	s.Trashed = append(s.Trashed, other.Trashed...)
	if other.Message != "" {
		s.Message = other.Message
	}
}
