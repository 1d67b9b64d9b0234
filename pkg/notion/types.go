package notion

import (
	"fmt"
	"strings"
	"time"

	"github.com/spendnote/spendnote/pkg/api"
)

// Wire types for the document database API. Property configurations and
// values are polymorphic on their "type" tag; only the shapes the tool
// handles are decoded, everything else maps to api.KindOther.

type richText struct {
	PlainText string    `json:"plain_text,omitempty"`
	Text      *textBody `json:"text,omitempty"`
}

type textBody struct {
	Content string `json:"content"`
}

type dateValue struct {
	Start string `json:"start"`
}

type relationRef struct {
	ID string `json:"id"`
}

type propertyConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Relation *struct {
		DatabaseID string `json:"database_id"`
	} `json:"relation,omitempty"`
}

type databaseResponse struct {
	ID         string                    `json:"id"`
	Title      []richText                `json:"title"`
	Properties map[string]propertyConfig `json:"properties"`
}

func (d databaseResponse) toSchema() api.Schema {
	schema := api.Schema{
		ID:     d.ID,
		Title:  plainText(d.Title),
		Fields: make(map[string]api.FieldSchema, len(d.Properties)),
	}
	for name, prop := range d.Properties {
		field := api.FieldSchema{ID: prop.ID, Name: name}
		switch prop.Type {
		case "title":
			field.Kind = api.KindTitle
		case "number":
			field.Kind = api.KindNumber
		case "date":
			field.Kind = api.KindDate
		case "relation":
			field.Kind = api.KindRelation
			if prop.Relation != nil {
				field.Relation = prop.Relation.DatabaseID
			}
		default:
			field.Kind = api.KindOther
		}
		schema.Fields[name] = field
	}
	return schema
}

type propertyValue struct {
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type,omitempty"`
	Title    []richText    `json:"title,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Date     *dateValue    `json:"date,omitempty"`
	Relation []relationRef `json:"relation,omitempty"`
}

type page struct {
	ID         string                   `json:"id"`
	Properties map[string]propertyValue `json:"properties"`
}

func (p page) toRecord() api.Record {
	rec := api.Record{ID: p.ID, Fields: make(map[string]api.FieldValue)}
	for name, prop := range p.Properties {
		switch prop.Type {
		case "title":
			text := plainText(prop.Title)
			rec.Title = text
			rec.Fields[name] = api.Title(text)
		case "number":
			if prop.Number != nil {
				rec.Fields[name] = api.Number(*prop.Number)
			}
		case "date":
			if prop.Date != nil {
				if d, err := parseDate(prop.Date.Start); err == nil {
					rec.Fields[name] = api.Date(d)
				}
			}
		case "relation":
			if len(prop.Relation) > 0 {
				rec.Fields[name] = api.Relation(prop.Relation[0].ID)
			}
		}
	}
	return rec
}

// parseDate accepts both plain dates and datetime starts.
func parseDate(s string) (time.Time, error) {
	if len(s) >= 10 {
		s = s[:10]
	}
	return time.Parse("2006-01-02", s)
}

func plainText(parts []richText) string {
	var b strings.Builder
	for _, part := range parts {
		if part.PlainText != "" {
			b.WriteString(part.PlainText)
		} else if part.Text != nil {
			b.WriteString(part.Text.Content)
		}
	}
	return b.String()
}

func encodeValue(v api.FieldValue) (propertyValue, error) {
	switch v.Kind {
	case api.KindTitle:
		return propertyValue{
			Title: []richText{{Text: &textBody{Content: v.Text}}},
		}, nil
	case api.KindNumber:
		n := v.Number
		return propertyValue{Number: &n}, nil
	case api.KindDate:
		return propertyValue{
			Date: &dateValue{Start: v.Date.Format("2006-01-02")},
		}, nil
	case api.KindRelation:
		return propertyValue{
			Relation: []relationRef{{ID: v.RelationID}},
		}, nil
	}
	return propertyValue{}, fmt.Errorf("unsupported field kind %d", v.Kind)
}

type querySort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type queryRequest struct {
	Sorts    []querySort `json:"sorts,omitempty"`
	PageSize int         `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type createRequest struct {
	Parent     pageParent               `json:"parent"`
	Properties map[string]propertyValue `json:"properties"`
}
