package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

func TestResultsTable(t *testing.T) {
	recs := []model.SearchRecord{
		{ID: "a", Kind: model.KindCompanies, Result: json.RawMessage(`[{"name": "Acme", "description": "Retail data", "relevance": "Good Match", "source": "web_search"}]`)},
		{ID: "b", Kind: model.KindCompanies, Result: json.RawMessage(`[]`)},
		{ID: "c", Kind: model.KindCompanies},
		{ID: "d", Kind: model.KindCompanies, Result: json.RawMessage(`[{"name": "Globex", "description": "Logistics"}]`)},
	}

	table, err := resultsTable(model.KindCompanies, recs)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Acme", table.Rows[0][0])
	assert.Equal(t, "Good Match", table.Rows[0][2])
	assert.Equal(t, "Globex", table.Rows[1][0])
}

func TestResultsTable_Errors(t *testing.T) {
	_, err := resultsTable(model.KindLinkedIn, nil)
	assert.Error(t, err)

	_, err = resultsTable(model.KindEmployees, []model.SearchRecord{{ID: "x", Result: json.RawMessage(`{"not": "a list"}`)}})
	assert.Error(t, err)
}
