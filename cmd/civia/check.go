package main

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"civia/domain/insight"
	"civia/ports"
)

// runCheck fetches KPIs and metrics concurrently and prints one line per
// endpoint. Neither call cancels the other, so both lines always report
// their own outcome; the first failure is returned.
func runCheck(ctx context.Context, backend ports.AnalyticsBackend, w io.Writer) error {
	var (
		kpis    *insight.KpiSnapshot
		metrics *insight.Metrics
		kpisErr error
		metErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		kpis, kpisErr = backend.GetKpis(ctx)
		return kpisErr
	})
	g.Go(func() error {
		metrics, metErr = backend.GetMetrics(ctx)
		return metErr
	})
	err := g.Wait()

	if kpisErr != nil {
		fmt.Fprintf(w, "kpis     FAIL %v\n", kpisErr)
	} else {
		fmt.Fprintf(w, "kpis     ok   registros=%s positivo=%s categorias=%s temas=%s\n",
			insight.FormatCount(kpis.TotalRecords),
			insight.FormatSentiment(kpis.PositiveSentiment),
			insight.FormatPlain(kpis.ActiveCategories),
			insight.FormatPlain(kpis.IdentifiedTopics))
	}

	if metErr != nil {
		fmt.Fprintf(w, "metrics  FAIL %v\n", metErr)
	} else {
		fmt.Fprintf(w, "metrics  ok   %d entries, accuracy %s\n",
			metrics.Len(), insight.FormatPercentage(metrics.NumberPtr(insight.MetricAccuracy)))
	}

	return err
}
