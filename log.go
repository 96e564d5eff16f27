package patchwork

import (
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
)

// LogEntry records one write. Value is the computed value after
// operations and before merge or collect.
type LogEntry struct {
	To        spath.Path
	From      spath.Path
	Value     *ir.Node
	Directive *Directive
}

// Log collects entries across a patch call. The engine only appends to
// it.
type Log struct {
	entries []LogEntry
}

func (l *Log) Append(e LogEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns the entries in the order they were written.
func (l *Log) Entries() []LogEntry {
	return l.entries
}

func (l *Log) Len() int {
	return len(l.entries)
}
