package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

func TestReadRows_XLSXConEncabezadosEnRuso(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Артикул", "Название", "Категория", "Количество", "Цена закупки", "Поставщик"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"A1", "Молоток", "Инструменты", 20, "350.50", "ООО Ромашка"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"B2", "Отвертка", "", 0}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadRows("остатки.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, rows, 2, "la fila 3 vacía se omite")

	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "A1", rows[0].Article)
	assert.Equal(t, "Молоток", rows[0].Name)
	assert.Equal(t, "Инструменты", rows[0].Category)
	assert.Equal(t, "20", rows[0].Quantity)
	assert.Equal(t, "350.50", rows[0].PurchasePrice)
	assert.Equal(t, "ООО Ромашка", rows[0].SupplierName)

	assert.Equal(t, 4, rows[1].Row)
	assert.Equal(t, "0", rows[1].Quantity)
	assert.Empty(t, rows[1].PurchasePrice)
}

func TestReadRows_CSVConPuntoYComa(t *testing.T) {
	data := "\ufeffarticle;name;quantity;purchase_price\nA1;Martillo;12;10,5\n;;;\nB2;Destornillador;-1;\n"
	rows, err := ReadRows("stock.CSV", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[0].Article)
	assert.Equal(t, "10,5", rows[0].PurchasePrice)
	assert.Equal(t, 4, rows[1].Row)
	assert.Equal(t, "-1", rows[1].Quantity)
}

func TestReadRows_CSVConComaYAliasEnEspanol(t *testing.T) {
	data := "Código,Nombre,Cantidad,Proveedor\nX-9,Cinta,3,Ferretería Sur\n"
	rows, err := ReadRows("a.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X-9", rows[0].Article)
	assert.Equal(t, "Ferretería Sur", rows[0].SupplierName)
}

func TestReadRows_Errores(t *testing.T) {
	_, err := ReadRows("datos.pdf", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadRows("a.csv", strings.NewReader("article,name\nA,B\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ReadRows("a.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ReadRows("a.xlsx", strings.NewReader("no es un zip"))
	assert.Error(t, err)
}
