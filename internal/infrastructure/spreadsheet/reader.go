// Package spreadsheet lee las filas de importación de existencias desde .xlsx o .csv.
// La primera fila es el encabezado; las columnas se reconocen por nombre en ruso, inglés o español.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// ErrUnsupportedFormat el archivo no es .xlsx ni .csv.
var ErrUnsupportedFormat = errors.New("formato de archivo no soportado")

type column int

const (
	colArticle column = iota
	colName
	colCategory
	colQuantity
	colPurchasePrice
	colSupplier
)

var aliases = map[string]column{
	"артикул": colArticle, "article": colArticle, "articulo": colArticle, "artículo": colArticle,
	"sku": colArticle, "codigo": colArticle, "código": colArticle,
	"название": colName, "наименование": colName, "name": colName, "nombre": colName,
	"категория": colCategory, "category": colCategory, "categoria": colCategory, "categoría": colCategory,
	"количество": colQuantity, "остаток": colQuantity, "quantity": colQuantity, "qty": colQuantity, "cantidad": colQuantity,
	"ценазакупки": colPurchasePrice, "закупочнаяцена": colPurchasePrice, "purchaseprice": colPurchasePrice,
	"preciocompra": colPurchasePrice, "preciodecompra": colPurchasePrice, "costo": colPurchasePrice,
	"поставщик": colSupplier, "supplier": colSupplier, "suppliername": colSupplier, "proveedor": colSupplier,
}

// ReadRows detecta el formato por la extensión de filename y devuelve las filas de datos.
// Row es el número de línea en la hoja (el encabezado es la línea 1). Las filas vacías se omiten.
func ReadRows(filename string, r io.Reader) ([]dto.ImportRow, error) {
	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	case ".csv":
		records, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return mapRecords(records)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx sin hojas: %w", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectSeparator(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return records, nil
}

// detectSeparator usa ';' si el encabezado tiene más puntos y coma que comas (exportaciones de Excel en locales europeos).
func detectSeparator(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func mapRecords(records [][]string) ([]dto.ImportRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("archivo vacío: %w", domain.ErrInvalidInput)
	}
	index := map[column]int{}
	for i, h := range records[0] {
		if c, ok := aliases[normalizeHeader(h)]; ok {
			if _, dup := index[c]; !dup {
				index[c] = i
			}
		}
	}
	for _, required := range []column{colArticle, colName, colQuantity} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("faltan columnas obligatorias (artículo, nombre, cantidad): %w", domain.ErrInvalidInput)
		}
	}

	cell := func(rec []string, c column) string {
		i, ok := index[c]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	rows := make([]dto.ImportRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, dto.ImportRow{
			Row:           i + 2,
			Article:       cell(rec, colArticle),
			Name:          cell(rec, colName),
			Category:      cell(rec, colCategory),
			Quantity:      cell(rec, colQuantity),
			PurchasePrice: cell(rec, colPurchasePrice),
			SupplierName:  cell(rec, colSupplier),
		})
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "", "\ufeff", "").Replace(h)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
