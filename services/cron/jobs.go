package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
)

// stuckAnalysisCutoff is how long a paper may sit in processing before we
// assume its worker died. The pipeline itself times out at 15 minutes, so
// an hour means the status update was lost too.
const stuckAnalysisCutoff = 1 * time.Hour

// cronLogRetention is how long completed cron log rows are kept
const cronLogRetention = 30 * 24 * time.Hour

// ReleaseStuckAnalyses marks papers stuck in processing as failed so they
// can be re-triggered. Runs every 15 minutes.
func (m *CronManager) ReleaseStuckAnalyses() {
	jobName := "release_stuck_analyses"

	cutoff := time.Now().Add(-stuckAnalysisCutoff)

	result := m.db.Model(&model.ExamPaper{}).
		Where("analysis_status = ? AND updated_at < ?", model.AnalysisProcessing, cutoff).
		Updates(map[string]interface{}{
			"analysis_status": model.AnalysisFailed,
			"analysis_error":  "analysis timed out, please retry",
		})

	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to release stuck papers: %w", result.Error))
		return
	}

	if result.RowsAffected == 0 {
		m.logJobComplete(jobName, "No stuck analyses found")
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Released %d stuck papers", result.RowsAffected))
}

// RefreshAnalyticsCache recomputes the cached dashboard aggregates.
// Runs every 10 minutes.
func (m *CronManager) RefreshAnalyticsCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "refresh_analytics_cache"

	if m.analytics == nil {
		m.logJobComplete(jobName, "Analytics service not configured, skipped")
		return
	}

	if err := m.analytics.RefreshCache(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to refresh analytics: %w", err))
		return
	}

	m.logJobComplete(jobName, "Analytics cache refreshed")
}

// CleanupOldCronLogs deletes finished cron log rows past the retention
// window. Runs daily at 2 AM.
func (m *CronManager) CleanupOldCronLogs() {
	jobName := "cleanup_old_cron_logs"

	cutoff := time.Now().Add(-cronLogRetention)

	result := m.db.Unscoped().
		Where("started_at < ? AND status IN ?", cutoff, []string{"completed", "failed"}).
		Delete(&model.CronJobLog{})

	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old cron log rows", result.RowsAffected))
}
