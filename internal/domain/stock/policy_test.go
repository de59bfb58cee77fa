package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

func TestEvaluate_Tabla(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		minLevel int
		want     stock.Status
	}{
		{"sin unidades y sin umbral", 0, 0, stock.StatusZero},
		{"sin unidades con umbral", 0, 5, stock.StatusZero},
		{"igual al umbral", 5, 5, stock.StatusLow},
		{"por debajo del umbral", 3, 5, stock.StatusLow},
		{"sobre el umbral", 6, 5, stock.StatusOK},
		{"sin umbral configurado", 1, 0, stock.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.Evaluate(tc.quantity, tc.minLevel))
		})
	}
}

func TestNeedsAttention(t *testing.T) {
	assert.True(t, stock.NeedsAttention(stock.StatusZero))
	assert.True(t, stock.NeedsAttention(stock.StatusLow))
	assert.False(t, stock.NeedsAttention(stock.StatusOK))
}

func TestParseFilter(t *testing.T) {
	s, ok := stock.ParseFilter("all")
	assert.True(t, ok)
	assert.Equal(t, stock.Status(""), s)

	s, ok = stock.ParseFilter("low")
	assert.True(t, ok)
	assert.Equal(t, stock.StatusLow, s)

	_, ok = stock.ParseFilter("critical")
	assert.False(t, ok)
}
