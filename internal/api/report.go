package api

import (
	"time"

	"cardsnap/pkg/logger"
)

// SkippedPhoto records a photo that was not uploaded and why.
type SkippedPhoto struct {
	Path   string
	Reason string
}

// UploadReport summarizes one batch run.
type UploadReport struct {
	StartTime      time.Time
	EndTime        time.Time
	ProcessedCount int
	UploadedCount  int
	SkippedCount   int
	FailedCount    int
	Skipped        []SkippedPhoto
}

func (r *UploadReport) AddSkipped(path, reason string) {
	r.SkippedCount++
	r.Skipped = append(r.Skipped, SkippedPhoto{Path: path, Reason: reason})
}

func (r *UploadReport) TimeTaken() time.Duration {
	return r.EndTime.Sub(r.StartTime).Round(time.Millisecond)
}

func (r *UploadReport) Print(log *logger.Logger) {
	log.Info("Upload complete:")
	log.Info("- Photos processed: %d", r.ProcessedCount)
	log.Info("- Cards created: %d", r.UploadedCount)
	log.Info("- Photos skipped: %d", r.SkippedCount)
	log.Info("- Uploads failed: %d", r.FailedCount)
	log.Info("- Time taken: %v", r.TimeTaken())

	for _, skipped := range r.Skipped {
		log.Info("  skipped %s (%s)", skipped.Path, skipped.Reason)
	}
}
