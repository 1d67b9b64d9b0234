// Package api defines the core interfaces and data structures for spendnote.
package api

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrCancelled is returned by prompts when the operator aborts the
// current interaction (Esc/Ctrl+C). It terminates the session.
var ErrCancelled = errors.New("cancelled by operator")

// FieldKind identifies the shape of a schema field and its value.
type FieldKind int

const (
	// KindOther covers every field type the tool does not handle.
	KindOther FieldKind = iota
	// KindTitle is the collection's title/text field.
	KindTitle
	// KindNumber is a numeric field.
	KindNumber
	// KindDate is a calendar-date field.
	KindDate
	// KindRelation is a reference to a page in another collection.
	KindRelation
)

// FieldSchema describes one field of a remote collection schema.
type FieldSchema struct {
	// ID is the remote identifier of the field.
	ID string
	// Name is the field's display name, used as the record key.
	Name string
	// Kind is the recognized field kind, KindOther if unrecognized.
	Kind FieldKind
	// Relation is the target collection ID for KindRelation fields.
	Relation string
}

// Schema is the field layout of a remote collection, fetched once per run.
type Schema struct {
	// ID is the collection identifier.
	ID string
	// Title is the collection's display title.
	Title string
	// Fields maps field name to its schema entry.
	Fields map[string]FieldSchema
}

// FieldValue holds one operator-supplied value shaped for the remote
// schema. Exactly the variant matching Kind is meaningful.
type FieldValue struct {
	Kind FieldKind

	Text       string
	Number     float64
	Date       time.Time
	RelationID string
}

// Title returns a title-kind value.
func Title(text string) FieldValue {
	return FieldValue{Kind: KindTitle, Text: text}
}

// Number returns a number-kind value.
func Number(n float64) FieldValue {
	return FieldValue{Kind: KindNumber, Number: n}
}

// Date returns a date-kind value. Only the calendar date is significant.
func Date(d time.Time) FieldValue {
	return FieldValue{Kind: KindDate, Date: d}
}

// Relation returns a relation-kind value referencing a remote page.
func Relation(pageID string) FieldValue {
	return FieldValue{Kind: KindRelation, RelationID: pageID}
}

// String renders the value for display. Unrecognized kinds render empty.
func (v FieldValue) String() string {
	switch v.Kind {
	case KindTitle:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		return v.Date.Format("2006-01-02")
	case KindRelation:
		return v.RelationID
	}
	return ""
}

// Record is a page fetched from a remote collection.
type Record struct {
	// ID is the page identifier.
	ID string
	// Title is the page's title text, empty if the page has none.
	Title string
	// Fields holds the page's recognized property values by field name.
	Fields map[string]FieldValue
}

// DisplayTitle returns the page title, or "Untitled" when absent.
func (r Record) DisplayTitle() string {
	if r.Title == "" {
		return "Untitled"
	}
	return r.Title
}

// FieldString renders the named field for display, empty when absent.
func (r Record) FieldString(name string) string {
	return r.Fields[name].String()
}

// Query bounds and orders a page listing.
type Query struct {
	// SortBy is the field name to sort on. Empty means remote default order.
	SortBy string
	// Descending sorts newest-first when true.
	Descending bool
	// PageSize caps the number of returned pages. Zero means remote default.
	PageSize int
}

// Store is the remote document-database boundary consumed by the session.
type Store interface {
	// Schema fetches the configured collection's schema.
	Schema(ctx context.Context) (Schema, error)

	// Pages lists pages of a collection, optionally sorted and bounded.
	Pages(ctx context.Context, collectionID string, q *Query) ([]Record, error)

	// CreatePage creates a page under the parent collection with the
	// given field values and returns the created page.
	CreatePage(ctx context.Context, parentID string, fields map[string]FieldValue) (Record, error)
}

// Prompter is the interactive terminal boundary consumed by the session.
// All methods block until the operator answers and return ErrCancelled
// when the interaction is aborted.
type Prompter interface {
	// Text reads a free-text line. When complete is non-nil it is invoked
	// on every input change and its result shown as suggestions.
	Text(label string, complete func(input string) []string) (string, error)

	// Confirm reads a yes/no answer with a default.
	Confirm(label string, def bool) (bool, error)

	// Date selects a calendar date between min and max, cursor starting
	// on def. Weeks start on Monday.
	Date(label string, def, min, max time.Time) (time.Time, error)

	// Select picks one of options, cursor starting at the given index.
	// It returns the selected index.
	Select(label string, options []string, cursor int) (int, error)
}
