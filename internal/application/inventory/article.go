package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeArticle forma canónica del código de artículo: NFC, sin espacios sobrantes y en mayúsculas.
// Dos filas que difieren solo en esos aspectos apuntan al mismo producto.
func NormalizeArticle(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	return cases.Upper(language.Und).String(s)
}
