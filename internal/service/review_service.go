package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/export"
	"github.com/skit-dev/sodeca-api/pkg/jobs"
	"github.com/skit-dev/sodeca-api/pkg/storage"
)

const exportJobType = "export_sheets"

type reviewSubmissionRepository interface {
	ListAll(ctx context.Context, form string) ([]models.SubmissionRow, error)
	UpdateStatus(ctx context.Context, form, studentID string, status models.SubmissionStatus) error
}

type exportStore interface {
	Save(filename string, data []byte) (string, error)
	Exists(filename string) bool
	Path(filename string) string
}

// ReviewService is the staff surface: list stored submissions, change their
// review state, and export review sheets. Sheet rendering runs on a
// background queue; downloads are authorised by signed tokens rather than a
// session so links can be pasted into department mail.
type ReviewService struct {
	registry    *forms.Registry
	submissions reviewSubmissionRepository
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	store       exportStore
	signer      *storage.SignedURLSigner
	queue       *jobs.Queue
	logger      *zap.Logger
}

// NewReviewService constructs a ReviewService with its own export queue.
func NewReviewService(registry *forms.Registry, submissions reviewSubmissionRepository, store exportStore, signer *storage.SignedURLSigner, queueCfg jobs.QueueConfig, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReviewService{
		registry:    registry,
		submissions: submissions,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		store:       store,
		signer:      signer,
		logger:      logger,
	}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("exports", s.handleExportJob, queueCfg)
	return s
}

// StartWorkers starts the export worker pool.
func (s *ReviewService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains the export worker pool.
func (s *ReviewService) StopWorkers() {
	s.queue.Stop()
}

// List returns the stored rows of every registered form, in registry order.
// Forms without submissions appear with an empty row set.
func (s *ReviewService) List(ctx context.Context) ([]models.FormSubmissions, error) {
	defs := s.registry.Definitions()
	out := make([]models.FormSubmissions, 0, len(defs))
	for _, def := range defs {
		rows, err := s.submissions.ListAll(ctx, def.Key)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list %s submissions", def.Key))
		}
		if rows == nil {
			rows = []models.SubmissionRow{}
		}
		out = append(out, models.FormSubmissions{Form: def.Key, Title: def.Title, Rows: rows})
	}
	return out, nil
}

// UpdateStatus moves one submission to the given review state.
func (s *ReviewService) UpdateStatus(ctx context.Context, form, studentID string, status models.SubmissionStatus) error {
	if _, ok := s.registry.Get(form); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "unknown form: "+form)
	}
	if !models.ValidStatus(status) {
		return appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved or rejected")
	}
	if err := s.submissions.UpdateStatus(ctx, form, studentID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no submission found for this student")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission status")
	}
	s.logger.Info("submission status updated",
		zap.String("form", form),
		zap.String("student_id", studentID),
		zap.String("status", string(status)),
	)
	return nil
}

// StartExport queues a sheet export and returns the job with signed download
// links for each file the job will produce. The files exist once the job
// completes; until then downloads return not found.
func (s *ReviewService) StartExport(ctx context.Context) (*models.ExportJob, error) {
	jobID := uuid.NewString()

	names := make([]string, 0, len(s.registry.Keys())+1)
	for _, key := range s.registry.Keys() {
		names = append(names, key+".csv")
	}
	names = append(names, "combined.pdf")

	files := make([]models.ExportFile, 0, len(names))
	for _, name := range names {
		token, _, err := s.signer.Generate(jobID, name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
		}
		files = append(files, models.ExportFile{
			Name:  name,
			Token: token,
			URL:   "/exports/" + token,
		})
	}

	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: exportJobType}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	s.logger.Info("sheet export queued", zap.String("job_id", jobID))
	return &models.ExportJob{ID: jobID, Files: files}, nil
}

// ResolveExport validates a signed token and returns the on-disk path of the
// rendered file.
func (s *ReviewService) ResolveExport(token string) (string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		s.logger.Warn("export token rejected", zap.Error(err))
		return "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	filename := path.Join(jobID, relPath)
	if !s.store.Exists(filename) {
		return "", appErrors.Clone(appErrors.ErrNotFound, "export not ready or no longer available")
	}
	return s.store.Path(filename), nil
}

func (s *ReviewService) handleExportJob(ctx context.Context, job jobs.Job) error {
	if job.Type != exportJobType {
		return fmt.Errorf("unknown job type %q", job.Type)
	}
	started := time.Now()

	var sections []export.Section
	for _, def := range s.registry.Definitions() {
		rows, err := s.submissions.ListAll(ctx, def.Key)
		if err != nil {
			return fmt.Errorf("list %s submissions: %w", def.Key, err)
		}

		headers := append([]string{"student_id"}, def.FieldNames()...)
		headers = append(headers, "status")
		dataset := export.Dataset{Headers: headers, Rows: rowMaps(rows)}

		data, err := s.csv.Render(dataset)
		if err != nil {
			return fmt.Errorf("render %s csv: %w", def.Key, err)
		}
		if _, err := s.store.Save(path.Join(job.ID, def.Key+".csv"), data); err != nil {
			return fmt.Errorf("save %s csv: %w", def.Key, err)
		}
		sections = append(sections, export.Section{Title: def.Title, Dataset: dataset})
	}

	pdfData, err := s.pdf.RenderSections("SODECA Submissions", sections)
	if err != nil {
		return fmt.Errorf("render combined pdf: %w", err)
	}
	if _, err := s.store.Save(path.Join(job.ID, "combined.pdf"), pdfData); err != nil {
		return fmt.Errorf("save combined pdf: %w", err)
	}

	s.logger.Info("sheet export rendered",
		zap.String("job_id", job.ID),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

func rowMaps(rows []models.SubmissionRow) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		out[i] = map[string]string(row)
	}
	return out
}
