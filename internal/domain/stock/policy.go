// Package stock deriva el estado de existencias de un producto a partir de su cantidad y umbral mínimo.
package stock

// Status estado derivado de existencias.
type Status string

const (
	StatusZero Status = "zero"
	StatusLow  Status = "low"
	StatusOK   Status = "ok"
)

// Evaluate clasifica la existencia: zero si no hay unidades; low si hay umbral configurado
// y la cantidad no lo supera; ok en cualquier otro caso. Función pura.
func Evaluate(quantity, minLevel int) Status {
	if quantity <= 0 {
		return StatusZero
	}
	if minLevel > 0 && quantity <= minLevel {
		return StatusLow
	}
	return StatusOK
}

// NeedsAttention true para low y zero (los que cuentan en el indicador de stock bajo).
func NeedsAttention(s Status) bool {
	return s == StatusLow || s == StatusZero
}

// ParseFilter valida un filtro de estado; "" y "all" significan sin filtro.
func ParseFilter(s string) (Status, bool) {
	switch s {
	case "", "all":
		return "", true
	case string(StatusZero), string(StatusLow), string(StatusOK):
		return Status(s), true
	}
	return "", false
}
