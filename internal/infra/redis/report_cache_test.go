package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"transparency-service/internal/domain"
)

type countingReader struct {
	report domain.Report
	calls  int
}

func (r *countingReader) GetReport(context.Context, string) (domain.Report, error) {
	r.calls++
	return r.report, nil
}

func sampleReport() domain.Report {
	return domain.Report{
		Product:           domain.Product{ID: "p1", Name: "Granola Bar", Category: "Food & Beverages"},
		Breakdown:         domain.ScoreBreakdown{Completeness: 25, Quality: 15, TransparencyLevel: 15, CategorySpecific: 10},
		TotalScore:        65,
		Insights:          []string{"Product includes third-party certifications"},
		Recommendations:   []string{"Good transparency level. Focus on the areas above to reach excellence"},
		QuestionsAnswered: 5,
		GeneratedAt:       time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

func newTestCache(t *testing.T) (*ReportCache, *countingReader, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	reader := &countingReader{report: sampleReport()}
	return NewReportCache(client, reader, time.Minute), reader, mr
}

func TestReportCacheReadThrough(t *testing.T) {
	cache, reader, mr := newTestCache(t)
	ctx := context.Background()

	report, err := cache.GetReport(ctx, "p1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if report.TotalScore != 65 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if reader.calls != 1 {
		t.Fatalf("expected one store read, got %d", reader.calls)
	}
	if !mr.Exists("report:p1") {
		t.Fatalf("expected cached report key")
	}

	if _, err := cache.GetReport(ctx, "p1"); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("expected cache hit, store reads %d", reader.calls)
	}
}

func TestReportCacheRoundTripsPayload(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.GetReport(ctx, "p1"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	cached, err := cache.GetReport(ctx, "p1")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	want := sampleReport()
	if cached.TotalScore != want.TotalScore || cached.Breakdown != want.Breakdown ||
		len(cached.Insights) != len(want.Insights) || !cached.GeneratedAt.Equal(want.GeneratedAt) {
		t.Fatalf("cached report drifted: %+v", cached)
	}
}

func TestReportCacheInvalidate(t *testing.T) {
	cache, reader, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.GetReport(ctx, "p1"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if err := cache.Invalidate(ctx, "p1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("report:p1") {
		t.Fatalf("expected cache key to be removed")
	}

	if _, err := cache.GetReport(ctx, "p1"); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if reader.calls != 2 {
		t.Fatalf("expected a fresh store read after invalidation, got %d", reader.calls)
	}
}
