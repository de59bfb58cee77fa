package ports

import "time"

// MetricsRecorder métricas de negocio del libro de existencias y del cumplimiento de pedidos.
type MetricsRecorder interface {
	MovementRecorded(movementType, reason string)
	MovementRejected(cause string)
	OrderTransition(status string)
	FulfillmentObserved(outcome string, elapsed time.Duration)
	ImportRows(outcome string, n int)
}

// NoopMetrics no registra nada.
type NoopMetrics struct{}

func (NoopMetrics) MovementRecorded(string, string)           {}
func (NoopMetrics) MovementRejected(string)                   {}
func (NoopMetrics) OrderTransition(string)                    {}
func (NoopMetrics) FulfillmentObserved(string, time.Duration) {}
func (NoopMetrics) ImportRows(string, int)                    {}
