package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/cache"
	"gorm.io/gorm"
)

// analyticsCacheTTL keeps dashboard numbers fresh enough without hammering
// Postgres on every page load
const analyticsCacheTTL = 5 * time.Minute

const (
	cacheKeyDashboardStats = "analytics:dashboard"
	cacheKeySubjectStats   = "analytics:subjects"
)

// AnalyticsService aggregates statistics over papers, questions, and
// predictions
type AnalyticsService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewAnalyticsService creates a new analytics service. cache may be nil in
// tests; queries then always hit the database.
func NewAnalyticsService(db *gorm.DB, redisCache *cache.RedisCache) *AnalyticsService {
	return &AnalyticsService{
		db:    db,
		cache: redisCache,
	}
}

// DashboardStats represents overall platform statistics
type DashboardStats struct {
	TotalPapers        int64            `json:"total_papers"`
	PapersAnalyzed     int64            `json:"papers_analyzed"`
	PapersPending      int64            `json:"papers_pending"`
	PapersFailed       int64            `json:"papers_failed"`
	TotalQuestions     int64            `json:"total_questions"`
	TotalPredictions   int64            `json:"total_prediction_sets"`
	OCRProcessedPapers int64            `json:"ocr_processed_papers"`
	StorageUsedBytes   int64            `json:"storage_used_bytes"`
	QuestionTypes      map[string]int64 `json:"question_types"`
	PapersUploadedWeek int64            `json:"papers_uploaded_7d"`
}

// GetDashboardStats retrieves overall platform statistics
func (s *AnalyticsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if cached := s.fromCache(ctx, cacheKeyDashboardStats, &DashboardStats{}); cached != nil {
		return cached.(*DashboardStats), nil
	}

	stats := &DashboardStats{QuestionTypes: make(map[string]int64)}

	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).Count(&stats.TotalPapers).Error; err != nil {
		return nil, fmt.Errorf("failed to count papers: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Where("analysis_status = ?", model.AnalysisCompleted).
		Count(&stats.PapersAnalyzed).Error; err != nil {
		return nil, fmt.Errorf("failed to count analyzed papers: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Where("analysis_status IN ?", []model.PaperAnalysisStatus{
			model.AnalysisPending,
			model.AnalysisProcessing,
		}).
		Count(&stats.PapersPending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending papers: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Where("analysis_status = ?", model.AnalysisFailed).
		Count(&stats.PapersFailed).Error; err != nil {
		return nil, fmt.Errorf("failed to count failed papers: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Where("ocr_processed = ?", true).
		Count(&stats.OCRProcessedPapers).Error; err != nil {
		return nil, fmt.Errorf("failed to count OCR papers: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.ExtractedQuestion{}).Count(&stats.TotalQuestions).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.PredictionSet{}).Count(&stats.TotalPredictions).Error; err != nil {
		return nil, fmt.Errorf("failed to count prediction sets: %w", err)
	}

	var storageResult struct {
		Total int64
	}
	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Select("COALESCE(SUM(file_size), 0) as total").
		Scan(&storageResult).Error; err != nil {
		return nil, fmt.Errorf("failed to calculate storage: %w", err)
	}
	stats.StorageUsedBytes = storageResult.Total

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Where("created_at >= ?", sevenDaysAgo).
		Count(&stats.PapersUploadedWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent papers: %w", err)
	}

	typeCounts, err := s.questionTypeDistribution(ctx, 0)
	if err != nil {
		return nil, err
	}
	stats.QuestionTypes = typeCounts

	s.toCache(ctx, cacheKeyDashboardStats, stats)
	return stats, nil
}

// SubjectStats aggregates per-subject numbers
type SubjectStats struct {
	Subject        string           `json:"subject"`
	PaperCount     int64            `json:"paper_count"`
	QuestionCount  int64            `json:"question_count"`
	QuestionTypes  map[string]int64 `json:"question_types,omitempty"`
	LatestUploadAt time.Time        `json:"latest_upload_at"`
}

// GetSubjectStats returns per-subject paper and question counts
func (s *AnalyticsService) GetSubjectStats(ctx context.Context) ([]SubjectStats, error) {
	var cached []SubjectStats
	if got := s.fromCache(ctx, cacheKeySubjectStats, &cached); got != nil {
		return *got.(*[]SubjectStats), nil
	}

	var rows []struct {
		Subject        string
		PaperCount     int64
		QuestionCount  int64
		LatestUploadAt time.Time
	}

	err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).
		Select("subject, COUNT(*) as paper_count, COALESCE(SUM(total_questions), 0) as question_count, MAX(created_at) as latest_upload_at").
		Group("subject").
		Order("paper_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subjects: %w", err)
	}

	stats := make([]SubjectStats, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, SubjectStats{
			Subject:        r.Subject,
			PaperCount:     r.PaperCount,
			QuestionCount:  r.QuestionCount,
			LatestUploadAt: r.LatestUploadAt,
		})
	}

	s.toCache(ctx, cacheKeySubjectStats, stats)
	return stats, nil
}

// GetQuestionTypeDistribution returns question counts per type, optionally
// limited to one paper
func (s *AnalyticsService) GetQuestionTypeDistribution(ctx context.Context, paperID uint) (map[string]int64, error) {
	return s.questionTypeDistribution(ctx, paperID)
}

func (s *AnalyticsService) questionTypeDistribution(ctx context.Context, paperID uint) (map[string]int64, error) {
	var rows []struct {
		QuestionType string
		Count        int64
	}

	query := s.db.WithContext(ctx).Model(&model.ExtractedQuestion{}).
		Select("question_type, COUNT(*) as count").
		Group("question_type")
	if paperID > 0 {
		query = query.Where("paper_id = ?", paperID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate question types: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.QuestionType] = r.Count
	}
	return counts, nil
}

// KeywordCount is one entry of the top keyword ranking
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// GetTopKeywords ranks keywords across all extracted questions, optionally
// filtered by subject. Keywords are stored as jsonb arrays, so the unnest
// happens in Postgres.
func (s *AnalyticsService) GetTopKeywords(ctx context.Context, subject string, limit int) ([]KeywordCount, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var rows []KeywordCount

	query := `
		SELECT kw AS keyword, COUNT(*) AS count
		FROM extracted_questions q
		JOIN exam_papers p ON p.id = q.paper_id
		CROSS JOIN LATERAL jsonb_array_elements_text(q.keywords) AS kw
		WHERE q.deleted_at IS NULL AND p.deleted_at IS NULL`
	args := []interface{}{}
	if subject != "" {
		query += " AND p.subject ILIKE ?"
		args = append(args, "%"+subject+"%")
	}
	query += " GROUP BY kw ORDER BY count DESC, kw ASC LIMIT ?"
	args = append(args, limit)

	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank keywords: %w", err)
	}

	return rows, nil
}

// RefreshCache recomputes the cached aggregates. Called by the cron job.
func (s *AnalyticsService) RefreshCache(ctx context.Context) error {
	if s.cache != nil {
		s.cache.Delete(ctx, cacheKeyDashboardStats)
		s.cache.Delete(ctx, cacheKeySubjectStats)
	}

	if _, err := s.GetDashboardStats(ctx); err != nil {
		return err
	}
	if _, err := s.GetSubjectStats(ctx); err != nil {
		return err
	}
	return nil
}

// fromCache returns the decoded value or nil on miss
func (s *AnalyticsService) fromCache(ctx context.Context, key string, target interface{}) interface{} {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.GetJSON(ctx, key, target); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Printf("Analytics: Cache read failed for %s: %v", key, err)
		}
		return nil
	}
	return target
}

// toCache stores a computed value, logging failures instead of propagating
func (s *AnalyticsService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, analyticsCacheTTL); err != nil {
		log.Printf("Analytics: Cache write failed for %s: %v", key, err)
	}
}
