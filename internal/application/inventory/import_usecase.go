package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const (
	importNote         = "Importación de existencias"
	defaultUnitMeasure = "unidad"
)

type importOutcome int

const (
	outcomeUnchanged importOutcome = iota
	outcomeCreated
	outcomeUpdated
)

// ImportUseCase concilia el catálogo y las existencias con un lote de filas de hoja de cálculo.
// Cada fila es atómica; una fila fallida no detiene las demás.
type ImportUseCase struct {
	txRunner  TxRunner
	movements *RegisterMovementUseCase
	obs       ports.Observers
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner TxRunner, movements *RegisterMovementUseCase, obs ports.Observers) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, movements: movements, obs: obs.WithDefaults()}
}

type importRow struct {
	row           int
	article       string
	name          string
	category      string
	quantity      int
	purchasePrice *decimal.Decimal
	supplierName  string
}

// ImportBatch procesa las filas en orden. Artículo nuevo: crea el producto y una entrada de compra.
// Artículo existente: actualiza nombre, categoría y precio si cambian y registra una corrección
// por la diferencia de cantidad. Reimportar el mismo archivo sin actividad intermedia no genera cambios.
func (uc *ImportUseCase) ImportBatch(ctx context.Context, userID string, rows []dto.ImportRow) (*dto.ImportResult, error) {
	res := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if raw.Row == 0 {
			raw.Row = i + 1
		}
		row, err := parseImportRow(raw)
		if err == nil {
			var outcome importOutcome
			outcome, err = uc.importRow(ctx, userID, row)
			switch {
			case err != nil:
			case outcome == outcomeCreated:
				res.Created++
			case outcome == outcomeUpdated:
				res.Updated++
			default:
				res.Unchanged++
			}
		}
		if err != nil {
			res.Errors = append(res.Errors, uc.rowError(raw, err))
		}
	}
	uc.obs.Metrics.ImportRows("created", res.Created)
	uc.obs.Metrics.ImportRows("updated", res.Updated)
	uc.obs.Metrics.ImportRows("unchanged", res.Unchanged)
	uc.obs.Metrics.ImportRows("failed", len(res.Errors))
	return res, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, userID string, row importRow) (importOutcome, error) {
	outcome := outcomeUnchanged
	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		outcome, movs = outcomeUnchanged, nil
		now := time.Now()

		p, err := repos.Products.GetByArticle(ctx, row.article)
		if err != nil {
			return err
		}
		if p == nil {
			price := decimal.Zero
			if row.purchasePrice != nil {
				price = *row.purchasePrice
			}
			p = &entity.Product{
				ID:          uuid.New().String(),
				Article:     row.article,
				Name:        row.name,
				Category:    row.category,
				Price:       price,
				UnitMeasure: defaultUnitMeasure,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repos.Products.Create(ctx, p); err != nil {
				return err
			}
			outcome = outcomeCreated
			if row.quantity == 0 {
				return nil
			}
			mov, err := uc.movements.ApplyInTx(ctx, repos, MovementInput{
				ProductID:     p.ID,
				Type:          entity.MovementTypeArrival,
				Quantity:      row.quantity,
				Reason:        entity.ReasonPurchase,
				Note:          importNote,
				SupplierName:  row.supplierName,
				PurchasePrice: row.purchasePrice,
				UserID:        userID,
			})
			if err != nil {
				return err
			}
			movs = append(movs, mov)
			return nil
		}

		if applyCatalogChanges(p, row) {
			p.UpdatedAt = now
			if err := repos.Products.Update(ctx, p); err != nil {
				return err
			}
			outcome = outcomeUpdated
		}
		mov, err := uc.movements.AdjustInTx(ctx, repos, AdjustInput{
			ProductID: p.ID,
			Target:    row.quantity,
			Note:      importNote,
			UserID:    userID,
		})
		if err != nil {
			return err
		}
		if mov != nil {
			movs = append(movs, mov)
			outcome = outcomeUpdated
		}
		return nil
	})
	if err != nil {
		return outcomeUnchanged, err
	}
	uc.movements.Notify(ctx, movs...)
	if outcome != outcomeUnchanged && len(movs) == 0 {
		// Alta en cero o reactivación sin diferencia de cantidad: el indicador cambia igual.
		if err := uc.obs.Cache.Invalidate(ctx); err != nil {
			uc.obs.Log.Warn().Err(err).Str("article", row.article).Msg("invalidar caché de stock bajo")
		}
	}
	return outcome, nil
}

// applyCatalogChanges copia a p los datos de la fila que difieren. Reactiva artículos dados de baja.
func applyCatalogChanges(p *entity.Product, row importRow) bool {
	changed := false
	if row.name != p.Name {
		p.Name = row.name
		changed = true
	}
	if row.category != "" && row.category != p.Category {
		p.Category = row.category
		changed = true
	}
	if row.purchasePrice != nil && !row.purchasePrice.Equal(p.Price) {
		p.Price = *row.purchasePrice
		changed = true
	}
	if !p.IsActive {
		p.IsActive = true
		changed = true
	}
	return changed
}

func (uc *ImportUseCase) rowError(raw dto.ImportRow, err error) dto.ImportRowError {
	var re *domain.RowError
	if errors.As(err, &re) {
		return dto.ImportRowError{Row: re.Row, Article: re.Article, Reason: re.Reason}
	}
	out := dto.ImportRowError{Row: raw.Row, Article: NormalizeArticle(raw.Article)}
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		out.Reason = "artículo duplicado"
	case errors.Is(err, domain.ErrInvalidQuantity):
		out.Reason = "cantidad inválida"
	default:
		uc.obs.Log.Error().Err(err).Int("row", raw.Row).Msg("importar fila")
		out.Reason = "error al guardar la fila"
	}
	return out
}

func parseImportRow(raw dto.ImportRow) (importRow, error) {
	row := importRow{
		row:          raw.Row,
		article:      NormalizeArticle(raw.Article),
		name:         strings.TrimSpace(raw.Name),
		category:     strings.TrimSpace(raw.Category),
		supplierName: strings.TrimSpace(raw.SupplierName),
	}
	fail := func(reason string) (importRow, error) {
		return importRow{}, &domain.RowError{Row: raw.Row, Article: row.article, Reason: reason}
	}
	if row.article == "" {
		return fail("artículo requerido")
	}
	if row.name == "" {
		return fail("nombre requerido")
	}

	qtyText := normalizeNumber(raw.Quantity)
	if qtyText == "" {
		return fail("cantidad requerida")
	}
	qty, err := decimal.NewFromString(qtyText)
	if err != nil {
		return fail("cantidad no numérica")
	}
	if !qty.IsInteger() {
		return fail("cantidad debe ser un entero")
	}
	if qty.IsNegative() {
		return fail("cantidad negativa")
	}
	if qty.GreaterThan(decimal.NewFromInt(entity.MaxQuantity)) {
		return fail("cantidad fuera de rango")
	}
	row.quantity = int(qty.IntPart())

	if priceText := normalizeNumber(raw.PurchasePrice); priceText != "" {
		price, err := decimal.NewFromString(priceText)
		if err != nil {
			return fail("precio de compra no numérico")
		}
		if price.IsNegative() {
			return fail("precio de compra negativo")
		}
		row.purchasePrice = &price
	}
	return row, nil
}

// normalizeNumber quita espacios y acepta coma decimal ("12,50").
func normalizeNumber(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
