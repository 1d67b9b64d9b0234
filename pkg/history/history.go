// Package history indexes previously-seen expense names for autocomplete
// and category defaults.
package history

import (
	"sort"
	"strings"
)

// Index maps historical expense names to their usual category and keeps
// the original-case names for autocomplete. It is built once from
// configuration and read-only afterwards.
type Index struct {
	// byName maps lower-cased expense name to category label.
	byName map[string]string
	// names holds original-case names, de-duplicated, first seen first.
	names []string

	memo suggestionMemo
}

// suggestionMemo caches the last prefix query so repeated keystrokes with
// unchanged input do not rescan the name list.
type suggestionMemo struct {
	input  string
	output []string
	valid  bool
}

// New builds an Index from a category label -> historical names mapping.
// Categories are folded in sorted label order so duplicate names resolve
// the same way on every run; within the normalized map the last write
// wins. A name that appears under several categories keeps its first
// position in the suggestion order.
func New(expenses map[string][]string) *Index {
	idx := &Index{byName: make(map[string]string)}

	labels := make([]string, 0, len(expenses))
	for label := range expenses {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	seen := make(map[string]struct{})
	for _, label := range labels {
		for _, name := range expenses[label] {
			idx.byName[strings.ToLower(name)] = label
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				idx.names = append(idx.names, name)
			}
		}
	}
	return idx
}

// Names returns the known expense names in first-seen order.
func (idx *Index) Names() []string {
	return idx.names
}

// SuggestionsFor returns the names whose literal text starts with prefix,
// in first-seen order. The match is case-sensitive on what the operator
// has typed so far. The last result is memoized per input.
func (idx *Index) SuggestionsFor(prefix string) []string {
	if idx.memo.valid && idx.memo.input == prefix {
		return idx.memo.output
	}

	var out []string
	for _, name := range idx.names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}

	idx.memo = suggestionMemo{input: prefix, output: out, valid: true}
	return out
}

// CategoryFor returns the category label recorded for name, matching
// case-insensitively.
func (idx *Index) CategoryFor(name string) (string, bool) {
	label, ok := idx.byName[strings.ToLower(name)]
	return label, ok
}
