package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/export"
	"github.com/packarma/admin-api/pkg/jobs"
	"github.com/packarma/admin-api/pkg/storage"
)

// ExportQuery carries the list filters an export applies before rendering,
// mirroring the filters of the screen it was requested from.
type ExportQuery struct {
	Search string
	Status string
	From   *time.Time
	To     *time.Time

	// Filters holds resource-specific values, e.g. category_id.
	Filters map[string]string
}

// DatasetSource supplies export data for one resource. Count lets the
// service decide between inline and background rendering before any rows are
// fetched; Build pages through the full filtered result.
type DatasetSource struct {
	Title string
	Count func(ctx context.Context, q ExportQuery) (int, error)
	Build func(ctx context.Context, q ExportQuery) (export.Dataset, error)
}

// ExportFile is an inline export rendered within the request.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportJobStatus tracks a background export through the cache.
type ExportJobStatus struct {
	ID        string    `json:"id"`
	Resource  string    `json:"resource"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	URL       string    `json:"url,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Error     string    `json:"error,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Export job states.
const (
	ExportStatusPending   = "pending"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	// AsyncRowThreshold is the row count above which rendering moves to the
	// background queue.
	AsyncRowThreshold int
	APIPrefix         string
	ResultTTL         time.Duration
	Workers           int
	QueueSize         int
}

type exportJobPayload struct {
	Status ExportJobStatus
	Query  ExportQuery
}

// ExportService renders filtered list screens into downloadable files. Small
// results render inline; large ones are handed to the job queue and polled
// through the status endpoint.
type ExportService struct {
	sources   map[string]DatasetSource
	renderers map[export.Format]export.Renderer
	storage   exportStorage
	cache     permissionCache
	signer    *storage.SignedURLSigner
	queue     *jobs.Queue
	logger    *zap.Logger
	cfg       ExportConfig
}

func exportStatusKey(id string) string {
	return fmt.Sprintf("export:job:%s", id)
}

// NewExportService constructs the service and its background queue. Start
// must be called before asynchronous exports are accepted.
func NewExportService(store exportStorage, cache permissionCache, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AsyncRowThreshold <= 0 {
		cfg.AsyncRowThreshold = 5000
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}

	s := &ExportService{
		sources: make(map[string]DatasetSource),
		renderers: map[export.Format]export.Renderer{
			export.FormatXLSX: export.NewXLSXExporter(),
			export.FormatCSV:  export.NewCSVExporter(),
			export.FormatPDF:  export.NewPDFExporter(),
		},
		storage: store,
		cache:   cache,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
	s.queue = jobs.NewQueue("exports", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})
	return s
}

// Register binds a dataset source to a resource name. Later registrations
// replace earlier ones.
func (s *ExportService) Register(resource string, source DatasetSource) {
	s.sources[resource] = source
}

// Start launches the background workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the background workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Export renders the named resource with the given filters. It returns
// either an inline file or, when the result exceeds the async threshold, a
// pending job status.
func (s *ExportService) Export(ctx context.Context, resource string, format export.Format, q ExportQuery) (*ExportFile, *ExportJobStatus, error) {
	if !format.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format "+string(format))
	}
	source, ok := s.sources[resource]
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "resource does not support export")
	}

	count, err := source.Count(ctx, q)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to size export")
	}

	if count <= s.cfg.AsyncRowThreshold || !s.asyncAvailable() {
		if count > s.cfg.AsyncRowThreshold {
			// Background jobs track their status through the cache, so without
			// it a queued export would never be findable. Render inline even
			// though the result is large.
			s.logger.Warn("status cache unavailable, rendering large export inline",
				zap.String("resource", resource),
				zap.Int("rows", count))
		}
		file, err := s.render(ctx, resource, source, format, q)
		if err != nil {
			return nil, nil, err
		}
		return file, nil, nil
	}

	status := ExportJobStatus{
		ID:        uuid.NewString(),
		Resource:  resource,
		Format:    string(format),
		Status:    ExportStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.putStatus(ctx, status); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record export job")
	}
	if err := s.queue.Enqueue(jobs.Job{
		ID:      status.ID,
		Type:    "export",
		Payload: exportJobPayload{Status: status, Query: q},
	}); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export queue is full")
	}
	return nil, &status, nil
}

// Status returns the cached state of a background export.
func (s *ExportService) Status(ctx context.Context, id string) (*ExportJobStatus, error) {
	var status ExportJobStatus
	if err := s.cache.Get(ctx, exportStatusKey(id), &status); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &status, nil
}

// Download resolves a signed token to the stored export file.
func (s *ExportService) Download(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer exists")
	}
	return file, path.Base(relPath), nil
}

// Cleanup removes export files older than the result TTL.
func (s *ExportService) Cleanup() {
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("removed expired export files", zap.Int("count", len(removed)))
	}
}

func (s *ExportService) render(ctx context.Context, resource string, source DatasetSource, format export.Format, q ExportQuery) (*ExportFile, error) {
	dataset, err := source.Build(ctx, q)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export dataset")
	}

	payload, err := s.renderers[format].Render(dataset, source.Title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    export.Filename(resource, format, time.Now()),
		ContentType: format.ContentType(),
		Data:        payload,
	}, nil
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportJobPayload)
	if !ok {
		return fmt.Errorf("unexpected export payload type %T", job.Payload)
	}
	status := payload.Status

	source, ok := s.sources[status.Resource]
	if !ok {
		status.Status = ExportStatusFailed
		status.Error = "resource no longer supports export"
		return s.putStatus(ctx, status)
	}

	file, err := s.render(ctx, status.Resource, source, export.Format(status.Format), payload.Query)
	if err != nil {
		status.Status = ExportStatusFailed
		status.Error = err.Error()
		if putErr := s.putStatus(ctx, status); putErr != nil {
			s.logger.Warn("failed to record export failure", zap.Error(putErr))
		}
		return err
	}

	stored := fmt.Sprintf("%s_%s", status.ID, file.Filename)
	relPath, err := s.storage.Save(stored, file.Data)
	if err != nil {
		status.Status = ExportStatusFailed
		status.Error = "failed to store export file"
		if putErr := s.putStatus(ctx, status); putErr != nil {
			s.logger.Warn("failed to record export failure", zap.Error(putErr))
		}
		return err
	}

	token, expiresAt, err := s.signer.Generate(status.ID, relPath)
	if err != nil {
		status.Status = ExportStatusFailed
		status.Error = "failed to sign download url"
		if putErr := s.putStatus(ctx, status); putErr != nil {
			s.logger.Warn("failed to record export failure", zap.Error(putErr))
		}
		return err
	}

	status.Status = ExportStatusCompleted
	status.Filename = file.Filename
	status.URL = fmt.Sprintf("%s/exports/download/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token)
	status.ExpiresAt = expiresAt
	return s.putStatus(ctx, status)
}

// asyncAvailable reports whether background exports can record their status.
// The cache repository degrades to a no-op without Redis; a job whose status
// writes vanish would look pending forever, so such deployments stay inline.
func (s *ExportService) asyncAvailable() bool {
	if s.cache == nil {
		return false
	}
	if probe, ok := s.cache.(interface{ Available() bool }); ok {
		return probe.Available()
	}
	return true
}

func (s *ExportService) putStatus(ctx context.Context, status ExportJobStatus) error {
	return s.cache.Set(ctx, exportStatusKey(status.ID), status, s.cfg.ResultTTL)
}
