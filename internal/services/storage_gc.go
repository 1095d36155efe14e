package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/clients/gcp"
	"github.com/coursekit/coursekit-backend/internal/data/repos"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

const gcBatchSize = 100

// StorageGCService reclaims storage payloads for media rows that have been
// soft-deleted longer than the retention window. Rows are only
// hard-deleted after their payload is confirmed gone, so a failed sweep
// leaves everything for the next tick.
type StorageGCService interface {
	Start(ctx context.Context)
	SweepOnce(ctx context.Context) (int, error)
}

type storageGCService struct {
	db              *gorm.DB
	log             *logger.Logger
	mediaObjectRepo repos.MediaObjectRepo
	bucket          gcp.BucketService
	retention       time.Duration
	interval        time.Duration
}

func NewStorageGCService(
	db *gorm.DB,
	log *logger.Logger,
	mediaObjectRepo repos.MediaObjectRepo,
	bucket gcp.BucketService,
	retention time.Duration,
	interval time.Duration,
) StorageGCService {
	return &storageGCService{
		db:              db,
		log:             log.With("service", "StorageGCService"),
		mediaObjectRepo: mediaObjectRepo,
		bucket:          bucket,
		retention:       retention,
		interval:        interval,
	}
}

func (s *storageGCService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("storage gc stopped")
				return
			case <-ticker.C:
				reclaimed, err := s.SweepOnce(ctx)
				if err != nil {
					s.log.Warn("storage gc sweep failed", "error", err)
					continue
				}
				if reclaimed > 0 {
					s.log.Info("storage gc sweep finished", "reclaimed", reclaimed)
				}
			}
		}
	}()
}

func (s *storageGCService) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.retention)
	objects, err := s.mediaObjectRepo.ListSoftDeletedBefore(ctx, nil, cutoff, gcBatchSize)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, obj := range objects {
		if err := s.bucket.DeleteFile(ctx, obj.StorageKey); err != nil && !errors.Is(err, gcp.ErrObjectNotFound) {
			s.log.Warn("storage gc payload delete failed", "media_id", obj.ID, "error", err)
			continue
		}
		if err := s.mediaObjectRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{obj.ID}); err != nil {
			s.log.Warn("storage gc row delete failed", "media_id", obj.ID, "error", err)
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}
