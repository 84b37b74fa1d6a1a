// Package bootstrap wires configuration, engine probing, storage, and the
// use cases into a runnable application for both the api and the worker.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrostack/agridocs/internal/classify"
	"github.com/agrostack/agridocs/internal/config"
	"github.com/agrostack/agridocs/internal/core/ports"
	"github.com/agrostack/agridocs/internal/core/usecase"
	"github.com/agrostack/agridocs/internal/engine"
	"github.com/agrostack/agridocs/internal/extract"
	"github.com/agrostack/agridocs/internal/infrastructure/llm/deepseek"
	"github.com/agrostack/agridocs/internal/infrastructure/queue/nats"
	"github.com/agrostack/agridocs/internal/infrastructure/repository/postgres"
	"github.com/agrostack/agridocs/internal/infrastructure/resilience"
	"github.com/agrostack/agridocs/internal/infrastructure/storage/localfs"
	"github.com/agrostack/agridocs/internal/observability/logging"
	"github.com/agrostack/agridocs/internal/ocr"
	"github.com/agrostack/agridocs/internal/speech"
	"github.com/agrostack/agridocs/internal/summarize"
)

type App struct {
	Config   config.Config
	Log      *slog.Logger
	Registry *engine.Registry

	Queue        ports.MessageQueue
	Documents    ports.DocumentRepository
	Analyses     ports.AnalysisRepository
	Folders      ports.FolderRepository
	IngestUC     ports.DocumentIngestor
	AnalyzeUC    ports.DocumentAnalyzer
	AskUC        ports.QuestionAnswerer
	TranscribeUC ports.SpeechTranscriber

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	log := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(log)

	registry := engine.Probe(cfg, log)
	executor := resilience.NewExecutor(resilience.DefaultConfig(), log)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	documents := postgres.NewDocumentRepository(db)
	if err := documents.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	analyses := postgres.NewAnalysisRepository(db)
	folders := postgres.NewFolderRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	var model ports.RemoteModel
	if cfg.DeepSeekAPIKey != "" {
		model = deepseek.New(cfg.DeepSeekAPIURL, cfg.DeepSeekAPIKey, cfg.DeepSeekModel, executor)
	}

	ocrSelector := ocr.NewSelector(
		registry,
		ocr.ProcessMemoryGauge{},
		log,
		ocr.SelectorOptions{
			Disabled:        cfg.DisableOCR,
			PreferredEngine: cfg.PreferredOCREngine,
			MemoryBudgetMB:  cfg.MaxMemoryMB,
		},
		ocr.NewTesseractEngine(cfg.TesseractBin, cfg.ExtendedLanguages),
		ocr.NewSidecarEngine(cfg.OCRSidecarURL),
	)

	speechSelector := speech.NewSelector(
		registry,
		speech.NewWhisperEngine(cfg.WhisperBin, cfg.WhisperModelPath),
		speech.NewOnlineEngine(cfg.SpeechAPIURL, executor),
		speech.NewTranscoder(cfg.FFmpegBin),
		log,
		cfg.DisableSpeech,
	)

	classifier := classify.NewSelector(
		log,
		classify.NewNeuralStrategy(cfg.ClassifierURL, registry),
		classify.NewBayesStrategy(cfg.ExtendedLanguages),
		classify.NewKeywordStrategy(cfg.ExtendedLanguages),
	)

	extractor := extract.NewExtractor(storage, ocrSelector, log)
	summarizer := summarize.NewService(model, log)

	ingestUC := usecase.NewIngestDocumentUseCase(documents, storage, queue)
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(documents, analyses, folders, extractor, classifier, summarizer)
	askUC := usecase.NewAskDocumentUseCase(documents, analyses, model)
	transcribeUC := usecase.NewTranscribeAudioUseCase(speechSelector)

	return &App{
		Config:   cfg,
		Log:      log,
		Registry: registry,

		Queue:        queue,
		Documents:    documents,
		Analyses:     analyses,
		Folders:      folders,
		IngestUC:     ingestUC,
		AnalyzeUC:    analyzeUC,
		AskUC:        askUC,
		TranscribeUC: transcribeUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
