package telemetry

import (
	"context"

	"codeberg.org/fervag/x708ctl/internal/battery"
)

// Collector records telemetry samples for later inspection.
type Collector interface {
	Record(ctx context.Context, sample battery.Sample) error
	Close() error
}
