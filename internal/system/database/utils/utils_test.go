package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhereClause(t *testing.T) {
	assert.Equal(t, "SELECT * FROM T", BuildWhereClause("SELECT * FROM T", nil))
	assert.Equal(t, "SELECT * FROM T WHERE A = ? AND B = ?",
		BuildWhereClause("SELECT * FROM T", []string{"A = ?", "B = ?"}))
}

func TestBuildOrderAndLimit(t *testing.T) {
	q := BuildLimitQuery(BuildOrderByQuery("SELECT * FROM T", "CREATED_AT", false), 10)
	assert.Equal(t, "SELECT * FROM T ORDER BY CREATED_AT DESC LIMIT 10", q)
}

func TestBuildValuesPlaceholders(t *testing.T) {
	assert.Equal(t, "(?, ?, ?)", BuildValuesPlaceholders(1, 3))
	assert.Equal(t, "(?, ?), (?, ?)", BuildValuesPlaceholders(2, 2))
	assert.Equal(t, "", BuildValuesPlaceholders(0, 2))
}

func TestRowReaders(t *testing.T) {
	row := map[string]interface{}{
		"S":      "text",
		"B":      []byte("bytes"),
		"I64":    int64(42),
		"I32":    int32(7),
		"NUMSTR": "15",
		"TINY":   int64(1),
		"PGBOOL": true,
		"ZERO":   int64(0),
		"NIL":    nil,
	}

	assert.Equal(t, "text", GetString(row, "S"))
	assert.Equal(t, "bytes", GetString(row, "B"))
	assert.Equal(t, "", GetString(row, "NIL"))
	assert.Equal(t, int64(42), GetInt64(row, "I64"))
	assert.Equal(t, int64(7), GetInt64(row, "I32"))
	assert.Equal(t, int64(15), GetInt64(row, "NUMSTR"))
	assert.Equal(t, int64(0), GetInt64(row, "MISSING"))
	assert.True(t, GetBool(row, "TINY"))
	assert.True(t, GetBool(row, "PGBOOL"))
	assert.False(t, GetBool(row, "ZERO"))
	assert.False(t, GetBool(row, "NIL"))
}
