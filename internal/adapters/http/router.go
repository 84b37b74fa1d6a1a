// Package httpadapter exposes the document management API over plain
// net/http. Analysis itself runs in the worker; this surface only
// accepts uploads, reports state, and serves questions.
package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agrostack/agridocs/internal/config"
	"github.com/agrostack/agridocs/internal/core/domain"
	"github.com/agrostack/agridocs/internal/observability/metrics"
	"github.com/agrostack/agridocs/internal/policy"
)

const maxMultipartMemory = 32 << 20

// Narrow views of the use cases, so handlers are testable with small fakes.
type DocumentUploader interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByFolder(ctx context.Context, folderID string) ([]domain.Document, error)
}

type FolderLister interface {
	List(ctx context.Context) ([]domain.Folder, error)
}

type AnalysisReader interface {
	LatestByFileID(ctx context.Context, fileID string) (*domain.AnalysisRecord, error)
}

type DocumentAsker interface {
	Ask(ctx context.Context, documentID, question string) (string, error)
}

type AudioTranscriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type CapabilityReporter interface {
	Snapshot() []domain.Capability
}

type Router struct {
	cfg          config.Config
	uploader     DocumentUploader
	documents    DocumentReader
	analyses     AnalysisReader
	folders      FolderLister
	asker        DocumentAsker
	transcriber  AudioTranscriber
	capabilities CapabilityReporter
	httpMetrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	uploader DocumentUploader,
	documents DocumentReader,
	analyses AnalysisReader,
	folders FolderLister,
	asker DocumentAsker,
	transcriber AudioTranscriber,
	capabilities CapabilityReporter,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:          cfg,
		uploader:     uploader,
		documents:    documents,
		analyses:     analyses,
		folders:      folders,
		asker:        asker,
		transcriber:  transcriber,
		capabilities: capabilities,
		httpMetrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /v1/capabilities", rt.listCapabilities)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	mux.HandleFunc("GET /v1/documents/{id}/analysis", rt.getLatestAnalysis)
	mux.HandleFunc("POST /v1/documents/{id}/ask", rt.askDocument)
	mux.HandleFunc("GET /v1/folders", rt.listFolders)
	mux.HandleFunc("GET /v1/folders/{id}/documents", rt.listFolderDocuments)
	mux.HandleFunc("POST /v1/transcribe", rt.transcribeAudio)
	if rt.httpMetrics != nil {
		mux.Handle("GET /metrics", rt.httpMetrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInflight, 50*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.httpMetrics != nil {
		handler = rt.httpMetrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listCapabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"capabilities": rt.capabilities.Snapshot(),
	})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form is required")
		return
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.uploader.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, err := rt.documents.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) getLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := rt.documents.GetByID(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	record, err := rt.analyses.LatestByFileID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (rt *Router) askDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := rt.asker.Ask(r.Context(), id, req.Question)
	if rt.httpMetrics != nil {
		rt.httpMetrics.RecordAsk("api", err)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rt.httpMetrics != nil && strings.HasSuffix(answer, policy.TruncationNote) {
		rt.httpMetrics.RecordAskTruncation("api")
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (rt *Router) listFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := rt.folders.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if folders == nil {
		folders = []domain.Folder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

func (rt *Router) listFolderDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.documents.ListByFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) transcribeAudio(w http.ResponseWriter, r *http.Request) {
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMultipartMemory))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read audio body")
		return
	}
	text, err := rt.transcriber.Transcribe(r.Context(), audio)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapErrorToHTTPStatus(err), err.Error())
}
