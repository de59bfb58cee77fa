package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RegisterMovementUseCase registra entradas, salidas y correcciones de existencias de forma transaccional,
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	obs      ports.Observers
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, obs ports.Observers) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, obs: obs.WithDefaults()}
}

// MovementInput entrada para registrar un movimiento. Quantity siempre positiva.
type MovementInput struct {
	ProductID      string
	Type           string
	Quantity       int
	Reason         string
	OccurredAt     time.Time // cero = ahora
	Note           string
	RelatedOrderID string
	SaleID         string
	SupplierName   string
	PurchasePrice  *decimal.Decimal
	UserID         string
}

// AdjustInput fija la existencia de un producto en Target.
type AdjustInput struct {
	ProductID string
	Target    int
	Note      string
	UserID    string
}

// RecordArrival registra una entrada. Motivo por defecto: purchase.
func (uc *RegisterMovementUseCase) RecordArrival(ctx context.Context, in MovementInput) (*dto.MovementResponse, error) {
	in.Type = entity.MovementTypeArrival
	if in.Reason == "" {
		in.Reason = entity.ReasonPurchase
	}
	return uc.record(ctx, in)
}

// RecordDeparture registra una salida. Motivo por defecto: other.
// Falla con InsufficientStockError si la existencia quedaría negativa.
func (uc *RegisterMovementUseCase) RecordDeparture(ctx context.Context, in MovementInput) (*dto.MovementResponse, error) {
	in.Type = entity.MovementTypeDeparture
	if in.Reason == "" {
		in.Reason = entity.ReasonOther
	}
	return uc.record(ctx, in)
}

// AdjustStock registra una corrección por la diferencia entre in.Target y la existencia actual.
// Devuelve nil sin error si la existencia ya es in.Target.
func (uc *RegisterMovementUseCase) AdjustStock(ctx context.Context, in AdjustInput) (*dto.MovementResponse, error) {
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := uc.AdjustInTx(ctx, repos, in)
		mov = m
		return err
	})
	if err != nil {
		uc.ObserveRejection(err)
		return nil, err
	}
	if mov == nil {
		return nil, nil
	}
	uc.Notify(ctx, mov)
	out := ToMovementResponse(mov)
	return &out, nil
}

func (uc *RegisterMovementUseCase) record(ctx context.Context, in MovementInput) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		uc.ObserveRejection(err)
		return nil, err
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := uc.ApplyInTx(ctx, repos, in)
		mov = m
		return err
	})
	if err != nil {
		uc.ObserveRejection(err)
		return nil, err
	}
	uc.Notify(ctx, mov)
	out := ToMovementResponse(mov)
	return &out, nil
}

// ApplyInTx verifica y registra un movimiento usando los repositorios de la transacción del caller.
// Lo usan el cumplimiento de pedidos y la importación masiva para que todas sus líneas
// se confirmen o se deshagan juntas.
func (uc *RegisterMovementUseCase) ApplyInTx(ctx context.Context, repos repository.Repositories, in MovementInput) (*entity.StockMovement, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	// Bloquea la fila del producto hasta el fin de la transacción
	current, err := repos.Stock.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrUnknownProduct
	}

	mov := newMovement(in)
	next := current.Quantity + mov.SignedQuantity()
	if next > entity.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	if next < 0 {
		// Una corrección nunca puede dejar la existencia negativa.
		if in.Reason == entity.ReasonCorrection {
			return nil, domain.ErrInvalidQuantity
		}
		return nil, &domain.InsufficientStockError{
			ProductID: current.ProductID,
			Article:   current.Article,
			Available: current.Quantity,
			Requested: in.Quantity,
		}
	}
	if err := repos.Stock.SetQuantity(ctx, in.ProductID, next); err != nil {
		return nil, err
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// AdjustInTx calcula delta = Target - existencia actual y registra la corrección en la transacción del caller.
func (uc *RegisterMovementUseCase) AdjustInTx(ctx context.Context, repos repository.Repositories, in AdjustInput) (*entity.StockMovement, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Target < 0 || in.Target > entity.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	current, err := repos.Stock.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrUnknownProduct
	}
	delta := in.Target - current.Quantity
	if delta == 0 {
		return nil, nil
	}
	mi := MovementInput{
		ProductID: in.ProductID,
		Type:      entity.MovementTypeArrival,
		Quantity:  delta,
		Reason:    entity.ReasonCorrection,
		Note:      in.Note,
		UserID:    in.UserID,
	}
	if delta < 0 {
		mi.Type = entity.MovementTypeDeparture
		mi.Quantity = -delta
	}
	return uc.ApplyInTx(ctx, repos, mi)
}

// Notify avisa a los colaboradores post-commit. Sus fallos se registran y no afectan al movimiento.
func (uc *RegisterMovementUseCase) Notify(ctx context.Context, movements ...*entity.StockMovement) {
	events := make([]ports.Event, 0, len(movements))
	for _, m := range movements {
		if m == nil {
			continue
		}
		uc.obs.Metrics.MovementRecorded(m.Type, m.Reason)
		events = append(events, ports.Event{
			Type:       ports.EventMovementRecorded,
			Key:        m.ProductID,
			OccurredAt: m.OccurredAt,
			Payload:    ToMovementResponse(m),
		})
	}
	if len(events) == 0 {
		return
	}
	if err := uc.obs.Cache.Invalidate(ctx); err != nil {
		uc.obs.Log.Warn().Err(err).Msg("invalidar caché de stock bajo")
	}
	if err := uc.obs.Events.Publish(ctx, events...); err != nil {
		uc.obs.Log.Warn().Err(err).Int("events", len(events)).Msg("publicar movimientos")
	}
}

// ObserveRejection contabiliza movimientos rechazados por reglas del libro.
func (uc *RegisterMovementUseCase) ObserveRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		uc.obs.Metrics.MovementRejected("insufficient_stock")
	case errors.Is(err, domain.ErrInvalidQuantity):
		uc.obs.Metrics.MovementRejected("invalid_quantity")
	case errors.Is(err, domain.ErrUnknownProduct):
		uc.obs.Metrics.MovementRejected("unknown_product")
	}
}

func validateMovement(in MovementInput) error {
	if in.ProductID == "" || !entity.IsValidMovementType(in.Type) || !entity.IsValidReason(in.Reason) {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.Quantity > entity.MaxQuantity {
		return domain.ErrInvalidQuantity
	}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

func newMovement(in MovementInput) *entity.StockMovement {
	now := time.Now()
	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = now
	}
	return &entity.StockMovement{
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		OccurredAt:     occurred,
		Note:           in.Note,
		RelatedOrderID: in.RelatedOrderID,
		SaleID:         in.SaleID,
		SupplierName:   in.SupplierName,
		PurchasePrice:  in.PurchasePrice,
		CreatedBy:      in.UserID,
		CreatedAt:      now,
	}
}

// ToMovementResponse mapea un movimiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Reason:         m.Reason,
		OccurredAt:     m.OccurredAt,
		Note:           m.Note,
		RelatedOrderID: m.RelatedOrderID,
		SaleID:         m.SaleID,
		SupplierName:   m.SupplierName,
		PurchasePrice:  m.PurchasePrice,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
