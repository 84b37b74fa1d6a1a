package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrostack/agridocs/internal/bootstrap"
	"github.com/agrostack/agridocs/internal/config"
	"github.com/agrostack/agridocs/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	pipelineMetrics := metrics.NewPipelineMetrics("worker")
	app.Registry.OnDowngrade(func(name string) {
		pipelineMetrics.RecordEngineDowngrade("worker", name)
	})
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: pipelineMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Error("metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.Log.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		analyzeCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if doc, err := app.Documents.GetByID(analyzeCtx, documentID); err == nil {
			pipelineMetrics.ObserveQueueLag("worker", time.Since(doc.UpdatedAt))
		}

		start := time.Now()
		pipelineMetrics.StartAnalysis()
		outcome, err := app.AnalyzeUC.AnalyzeByID(analyzeCtx, documentID)
		pipelineMetrics.FinishAnalysis("worker", time.Since(start), err)
		if err != nil {
			return err
		}

		pipelineMetrics.RecordClassification(
			"worker",
			outcome.Record.Classification.Method,
			string(outcome.Record.Classification.Category),
		)
		if outcome.LowConfidence {
			app.Log.Warn("low_confidence_routing",
				"document_id", documentID,
				"category", outcome.Record.Classification.Category,
				"confidence", outcome.Record.Classification.Confidence,
			)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
