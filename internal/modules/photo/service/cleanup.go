package photo

import (
	"context"
	"log/slog"
	"time"

	"anoa.com/mediannsp/internal/modules/photo/dto"
	"anoa.com/mediannsp/internal/modules/photo/repository"
	"anoa.com/mediannsp/pkg/storage"
)

// strayGrace keeps files younger than this, so uploads in flight are never removed.
const strayGrace = time.Hour

// CleanupService removes photos whose owner was deleted and files no row references.
type CleanupService struct {
	repo    repository.PhotoRepository
	storage storage.ImageStorage
	logger  *slog.Logger
	now     func() time.Time
}

func NewCleanupService(repo repository.PhotoRepository, storage storage.ImageStorage, logger *slog.Logger) *CleanupService {
	return &CleanupService{repo: repo, storage: storage, logger: logger, now: time.Now}
}

func (s *CleanupService) Run(ctx context.Context) (*dto.CleanupReport, error) {
	report := &dto.CleanupReport{}

	orphans, err := s.repo.FindOrphans(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range orphans {
		if _, err := s.repo.Delete(ctx, p.ID); err != nil {
			return report, err
		}
		report.OrphanRows++
		if err := s.storage.DeleteImage(ctx, p.FilePath); err != nil {
			report.FailedFiles++
			s.logger.WarnContext(ctx, "failed to delete orphan photo file", slog.String("key", p.FilePath), slog.Any("error", err))
		}
	}

	paths, err := s.repo.FilePaths(ctx)
	if err != nil {
		return report, err
	}
	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}

	keys, err := s.storage.List(ctx, photoFolder, s.now().Add(-strayGrace))
	if err != nil {
		return report, err
	}
	for _, key := range keys {
		if _, ok := known[key]; ok {
			continue
		}
		if err := s.storage.DeleteImage(ctx, key); err != nil {
			report.FailedFiles++
			s.logger.WarnContext(ctx, "failed to delete stray file", slog.String("key", key), slog.Any("error", err))
			continue
		}
		report.StrayFiles++
	}

	s.logger.InfoContext(ctx, "photo cleanup finished",
		slog.Int("orphan_rows", report.OrphanRows),
		slog.Int("stray_files", report.StrayFiles),
		slog.Int("failed_files", report.FailedFiles),
	)
	return report, nil
}
