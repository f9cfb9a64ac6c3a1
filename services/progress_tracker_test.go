package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/utils/cache"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantType        ErrorType
		wantRecoverable bool
	}{
		{"nil", nil, ErrorTypeUnknown, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), ErrorTypeNetwork, true},
		{"rate limited", errors.New("inference API error (status 429): rate limit exceeded"), ErrorTypeLLM, true},
		{"gateway error", errors.New("inference API error (status 502): bad gateway"), ErrorTypeLLM, true},
		{"deadline", errors.New("context deadline exceeded"), ErrorTypeTimeout, true},
		{"ocr down", errors.New("OCR service returned status 500: worker crashed"), ErrorTypeOCR, true},
		{"gorm", errors.New("gorm: unique constraint violated"), ErrorTypeDatabase, false},
		{"pdf parse", errors.New("failed to parse PDF: malformed xref"), ErrorTypePDF, false},
		{"validation", errors.New("validation failed: title is required"), ErrorTypeValidation, false},
		{"mystery", errors.New("something odd happened"), ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotRecoverable := ClassifyError(tt.err)
			if gotType != tt.wantType {
				t.Errorf("ClassifyError(%v) type = %q, want %q", tt.err, gotType, tt.wantType)
			}
			if gotRecoverable != tt.wantRecoverable {
				t.Errorf("ClassifyError(%v) recoverable = %v, want %v", tt.err, gotRecoverable, tt.wantRecoverable)
			}
		})
	}
}

func TestCalculateProgressMonotonicOverPipeline(t *testing.T) {
	phases := []string{"initializing", "download", "extract", "ocr", "analyze", "predict", "save", "complete"}

	prev := -1
	for _, phase := range phases {
		got := CalculateProgress(phase)
		if got < prev {
			t.Errorf("CalculateProgress(%q) = %d, went backwards from %d", phase, got, prev)
		}
		if got < 0 || got > 100 {
			t.Errorf("CalculateProgress(%q) = %d, out of range", phase, got)
		}
		prev = got
	}

	if CalculateProgress("complete") != 100 {
		t.Errorf("CalculateProgress(\"complete\") = %d, want 100", CalculateProgress("complete"))
	}
	if CalculateProgress("bogus phase") != 0 {
		t.Errorf("unknown phase should map to 0, got %d", CalculateProgress("bogus phase"))
	}
}

func TestCreateJobAllowsOneActiveJobPerPaper(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set RUN_INTEGRATION_TESTS to run tests against a live Redis")
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	tracker := NewProgressTracker(redisCache)
	ctx := context.Background()
	paperID := uint(time.Now().UnixNano() % 1_000_000)
	defer tracker.ClearActiveJob(ctx, paperID)

	const triggers = 8
	var created int32
	var wg sync.WaitGroup
	for i := 0; i < triggers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tracker.CreateJob(ctx, paperID); err == nil {
				atomic.AddInt32(&created, 1)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("CreateJob succeeded %d times for the same paper, want exactly 1", created)
	}
}

func TestWrappedInsufficientTextClassifiesAsPDF(t *testing.T) {
	err := fmt.Errorf("text extraction failed: %w", ErrInsufficientText)

	gotType, recoverable := ClassifyError(err)
	if gotType != ErrorTypePDF {
		t.Errorf("type = %q, want %q", gotType, ErrorTypePDF)
	}
	if recoverable {
		t.Error("insufficient text should not be recoverable")
	}
}
