package sheets

import (
	"context"

	"tempo/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryExporter pushes newly materialized monthly summaries to an
	// external reporting destination.
	SummaryExporter interface {
		ExportSummaries(ctx context.Context, summaries []core.MonthlyCostSummary) error
	}
)
