package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_RestriccionesDelLibro(t *testing.T) {
	ddl := strings.Join(schema, "\n")
	assert.Contains(t, ddl, "stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0)")
	assert.Contains(t, ddl, "quantity INTEGER NOT NULL CHECK (quantity > 0)")
	assert.Contains(t, ddl, "order_id TEXT UNIQUE REFERENCES orders(id)")
	assert.Contains(t, ddl, "article TEXT NOT NULL UNIQUE")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, "tornillo", escapeLike("tornillo"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("x")
	if assert.NotNil(t, v) {
		assert.Equal(t, "x", *v)
	}
	assert.Equal(t, "", fromNull(nil))
	assert.Equal(t, "x", fromNull(v))
}
