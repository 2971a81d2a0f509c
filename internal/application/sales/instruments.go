package sales

import (
	"errors"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jhoicas/suplementos-api/internal/application/sales"

type instruments struct {
	tracer    trace.Tracer
	created   metric.Int64Counter
	rejected  metric.Int64Counter
	cancelled metric.Int64Counter
}

func newInstruments() instruments {
	meter := otel.Meter(instrumentationName)
	return instruments{
		tracer:    otel.Tracer(instrumentationName),
		created:   counter(meter, "sales.created", "ventas confirmadas"),
		rejected:  counter(meter, "sales.rejected", "ventas rechazadas por motivo"),
		cancelled: counter(meter, "sales.cancelled", "ventas canceladas"),
	}
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

// errorReason clasifica el error para métricas y logs.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrCreditLimitExceeded):
		return "credit_limit"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
