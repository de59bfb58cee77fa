package ports

import "github.com/jhoicas/Almacen-api/pkg/logger"

// Observers colaboradores que se notifican después de un commit.
// Los campos nil se reemplazan por implementaciones vacías.
type Observers struct {
	Events  EventPublisher
	Cache   LowStockCache
	Metrics MetricsRecorder
	Log     *logger.Logger
}

// WithDefaults completa los colaboradores ausentes.
func (o Observers) WithDefaults() Observers {
	if o.Events == nil {
		o.Events = NoopPublisher{}
	}
	if o.Cache == nil {
		o.Cache = NoopLowStockCache{}
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	return o
}
