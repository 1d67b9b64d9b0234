// Package session drives the interactive expense-entry loop: it fetches
// the remote collection schema once, then repeatedly prompts the operator
// field by field, assembles a record shaped for the schema and submits it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spendnote/spendnote/pkg/api"
	"github.com/spendnote/spendnote/pkg/calc"
	"github.com/spendnote/spendnote/pkg/history"
)

// Recognized field names, always prompted in this order. Later fields
// depend on earlier ones: the name's history drives the category
// preselection, the date default carries over between records.
const (
	fieldName     = "Name"
	fieldAmount   = "Amount"
	fieldDate     = "Date"
	fieldCategory = "Category"
)

// Config holds session parameters.
type Config struct {
	// DatabaseID is the expense collection to read and write.
	DatabaseID string
	// RecentCount is how many recent records to print before the loop.
	RecentCount int
	// LookbackDays bounds how far back the date prompt may go.
	LookbackDays int
}

// Session owns the per-run state: the category cache and the last chosen
// date. It is used by a single operator, never concurrently.
type Session struct {
	store   api.Store
	prompts api.Prompter
	history *history.Index
	logger  *slog.Logger
	cfg     Config

	lastDate         *time.Time
	categories       []api.Record
	categoriesLoaded bool

	// now and out are swapped in tests.
	now func() time.Time
	out io.Writer
}

// New creates a session.
func New(store api.Store, prompts api.Prompter, hist *history.Index, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:   store,
		prompts: prompts,
		history: hist,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		out:     os.Stdout,
	}
}

// amountError marks an operator input problem. It aborts the current
// record but not the session.
type amountError struct {
	err error
}

func (e *amountError) Error() string {
	return fmt.Sprintf("invalid amount: %v", e.err)
}

func (e *amountError) Unwrap() error {
	return e.err
}

// Run executes the entry loop until the operator declines to continue or
// an unrecoverable error occurs. Transport failures and cancelled
// prompts are fatal; a malformed amount only skips the current record.
func (s *Session) Run(ctx context.Context) error {
	schema, err := s.store.Schema(ctx)
	if err != nil {
		return fmt.Errorf("fetching schema: %w", err)
	}
	s.logger.Debug("schema fetched", "collection", schema.ID, "fields", len(schema.Fields))

	if err := s.printRecent(ctx); err != nil {
		return err
	}

	for {
		fields, err := s.buildRecord(ctx, schema)
		switch {
		case err == nil:
			if _, err := s.store.CreatePage(ctx, s.cfg.DatabaseID, fields); err != nil {
				return fmt.Errorf("creating record: %w", err)
			}
		default:
			var inputErr *amountError
			if !errors.As(err, &inputErr) {
				return err
			}
			fmt.Fprintln(s.out, inputErr.Error())
		}

		more, err := s.prompts.Confirm("Want to add one more row?", true)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// printRecent lists the most recent records, oldest first, so the
// operator sees where the collection left off.
func (s *Session) printRecent(ctx context.Context) error {
	records, err := s.store.Pages(ctx, s.cfg.DatabaseID, &api.Query{
		SortBy:     fieldDate,
		Descending: true,
		PageSize:   s.cfg.RecentCount,
	})
	if err != nil {
		return fmt.Errorf("listing recent records: %w", err)
	}

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Fprintf(s.out, "%s %s %s\n", r.FieldString(fieldDate), r.DisplayTitle(), r.FieldString(fieldAmount))
	}
	return nil
}

// buildRecord prompts for each recognized schema field in the fixed
// order Name, Amount, Date, Category. Fields missing from the schema or
// of an unexpected kind are skipped.
func (s *Session) buildRecord(ctx context.Context, schema api.Schema) (map[string]api.FieldValue, error) {
	fields := make(map[string]api.FieldValue)

	var (
		preselect     string
		havePreselect bool
	)

	if fs, ok := schema.Fields[fieldName]; ok && fs.Kind == api.KindTitle {
		name, err := s.prompts.Text("Name:", s.history.SuggestionsFor)
		if err != nil {
			return nil, err
		}
		fields[fieldName] = api.Title(name)
		preselect, havePreselect = s.history.CategoryFor(name)
	}

	if fs, ok := schema.Fields[fieldAmount]; ok && fs.Kind == api.KindNumber {
		raw, err := s.prompts.Text("Amount:", nil)
		if err != nil {
			return nil, err
		}
		amount, err := calc.Eval(raw)
		if err != nil {
			return nil, &amountError{err: err}
		}
		fields[fieldAmount] = api.Number(amount)
	}

	if fs, ok := schema.Fields[fieldDate]; ok && fs.Kind == api.KindDate {
		today := truncateDate(s.now())
		def := today
		if s.lastDate != nil {
			def = *s.lastDate
		}

		date, err := s.prompts.Date("Date:", def, today.AddDate(0, 0, -s.cfg.LookbackDays), today)
		if err != nil {
			return nil, err
		}
		fields[fieldDate] = api.Date(date)
		s.lastDate = &date
	}

	if fs, ok := schema.Fields[fieldCategory]; ok && fs.Kind == api.KindRelation {
		pages := s.categoryPages(ctx, fs.Relation)

		options := make([]string, len(pages))
		for i, p := range pages {
			options[i] = p.DisplayTitle()
		}

		cursor := 0
		if havePreselect {
			for i, opt := range options {
				if opt == preselect {
					cursor = i
					break
				}
			}
		}

		idx, err := s.prompts.Select("Category:", options, cursor)
		if err != nil {
			return nil, err
		}
		if idx >= 0 && idx < len(pages) {
			fields[fieldCategory] = api.Relation(pages[idx].ID)
		}
	}

	return fields, nil
}

// categoryPages returns the category pages, fetching them at most once
// per session. A failed fetch is cached as empty: the operator goes
// without categories for the rest of the run.
func (s *Session) categoryPages(ctx context.Context, collectionID string) []api.Record {
	if s.categoriesLoaded {
		return s.categories
	}
	s.categoriesLoaded = true

	pages, err := s.store.Pages(ctx, collectionID, nil)
	if err != nil {
		s.logger.Warn("fetching categories failed", "collection", collectionID, "error", err)
		return nil
	}
	s.categories = pages
	return pages
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
