package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendnote/spendnote/pkg/api"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		Token:      "test-token",
		DatabaseID: "db-1",
		BaseURL:    srv.URL,
	}, nil)
}

func TestSchema(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/databases/db-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, apiVersion, r.Header.Get("Notion-Version"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "db-1",
			"title": [{"plain_text": "Expenses"}],
			"properties": {
				"Name":     {"id": "t1", "name": "Name", "type": "title"},
				"Amount":   {"id": "n1", "name": "Amount", "type": "number"},
				"Date":     {"id": "d1", "name": "Date", "type": "date"},
				"Category": {"id": "r1", "name": "Category", "type": "relation", "relation": {"database_id": "cat-db"}},
				"Notes":    {"id": "x1", "name": "Notes", "type": "rich_text"}
			}
		}`))
	})

	schema, err := client.Schema(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "db-1", schema.ID)
	assert.Equal(t, "Expenses", schema.Title)
	assert.Equal(t, api.KindTitle, schema.Fields["Name"].Kind)
	assert.Equal(t, api.KindNumber, schema.Fields["Amount"].Kind)
	assert.Equal(t, api.KindDate, schema.Fields["Date"].Kind)
	assert.Equal(t, api.KindRelation, schema.Fields["Category"].Kind)
	assert.Equal(t, "cat-db", schema.Fields["Category"].Relation)
	assert.Equal(t, api.KindOther, schema.Fields["Notes"].Kind)
}

func TestPages(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)

		var body queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Sorts, 1)
		assert.Equal(t, "Date", body.Sorts[0].Property)
		assert.Equal(t, "descending", body.Sorts[0].Direction)
		assert.Equal(t, 5, body.PageSize)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"id": "p1", "properties": {
				"Name":   {"type": "title", "title": [{"plain_text": "Taxi"}]},
				"Amount": {"type": "number", "number": 12.5},
				"Date":   {"type": "date", "date": {"start": "2024-03-01"}}
			}},
			{"id": "p2", "properties": {}}
		]}`))
	})

	records, err := client.Pages(context.Background(), "db-1", &api.Query{
		SortBy:     "Date",
		Descending: true,
		PageSize:   5,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "p1", records[0].ID)
	assert.Equal(t, "Taxi", records[0].DisplayTitle())
	assert.Equal(t, "12.5", records[0].FieldString("Amount"))
	assert.Equal(t, "2024-03-01", records[0].FieldString("Date"))
	assert.Equal(t, "Untitled", records[1].DisplayTitle())
}

func TestCreatePage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pages", r.URL.Path)

		var body createRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "db-1", body.Parent.DatabaseID)

		name := body.Properties["Name"]
		require.Len(t, name.Title, 1)
		assert.Equal(t, "Groceries", name.Title[0].Text.Content)

		require.NotNil(t, body.Properties["Amount"].Number)
		assert.Equal(t, 42.0, *body.Properties["Amount"].Number)

		require.NotNil(t, body.Properties["Date"].Date)
		assert.Equal(t, "2024-03-02", body.Properties["Date"].Date.Start)

		require.Len(t, body.Properties["Category"].Relation, 1)
		assert.Equal(t, "cat-1", body.Properties["Category"].Relation[0].ID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "created-1", "properties": {}}`))
	})

	fields := map[string]api.FieldValue{
		"Name":     api.Title("Groceries"),
		"Amount":   api.Number(42),
		"Date":     api.Date(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		"Category": api.Relation("cat-1"),
	}

	rec, err := client.CreatePage(context.Background(), "db-1", fields)
	require.NoError(t, err)
	assert.Equal(t, "created-1", rec.ID)
}

func TestAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "object_not_found", "message": "no such database"}`))
	})

	_, err := client.Schema(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Contains(t, apiErr.Message, "no such database")
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "db-1", "title": [], "properties": {}}`))
	})

	_, err := client.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Schema(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
