package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifelog/internal/util"
)

func parseTestDate(s string) (time.Time, error) { return util.ParseDate(s) }

func TestMonthlyStats(t *testing.T) {
	rec, _, db := setupRecordService(t)
	stats := NewStatsService(db, testLogger())
	ctx := context.Background()

	for _, d := range []string{
		"2024-03-01", "2024-03-01", "2024-03-15", "2024-03-31",
		"2024-02-29", "2024-04-01", "2023-03-15",
	} {
		if _, err := rec.Create(ctx, recordInput("r", d), nil); err != nil {
			t.Fatalf("Create(%s) error = %v", d, err)
		}
	}

	got, err := stats.MonthlyStats(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("MonthlyStats() error = %v", err)
	}
	want := []DailyCount{
		{Date: "2024-03-01", Count: 2},
		{Date: "2024-03-15", Count: 1},
		{Date: "2024-03-31", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("MonthlyStats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MonthlyStats()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	empty, err := stats.MonthlyStats(ctx, 2024, 5)
	if err != nil || len(empty) != 0 {
		t.Errorf("MonthlyStats(2024, 5) = %v, %v; want empty", empty, err)
	}
}

func TestMonthlyStats_InvalidMonth(t *testing.T) {
	stats := NewStatsService(setupTestDB(t), testLogger())
	if _, err := stats.MonthlyStats(context.Background(), 2024, 13); !errors.Is(err, ErrValidation) {
		t.Errorf("MonthlyStats(2024, 13) error = %v, want ErrValidation", err)
	}
}

func TestTagAnalysis(t *testing.T) {
	rec, _, db := setupRecordService(t)
	stats := NewStatsService(db, testLogger())
	ctx := context.Background()

	for _, tags := range []string{"a, b", "b, c", ""} {
		in := recordInput("r", "2024-01-01")
		in.Tags = tags
		if _, err := rec.Create(ctx, in, nil); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := stats.TagAnalysis(ctx)
	if err != nil {
		t.Fatalf("TagAnalysis() error = %v", err)
	}
	want := []TagCount{{"b", 2}, {"a", 1}, {"c", 1}}
	if len(got) != len(want) {
		t.Fatalf("TagAnalysis() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TagAnalysis()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTagAnalysis_CaseSensitive(t *testing.T) {
	rec, _, db := setupRecordService(t)
	stats := NewStatsService(db, testLogger())
	ctx := context.Background()

	in := recordInput("r", "2024-01-01")
	in.Tags = "Work, work,work "
	rec.Create(ctx, in, nil)

	got, _ := stats.TagAnalysis(ctx)
	if len(got) != 2 || got[0] != (TagCount{"work", 2}) || got[1] != (TagCount{"Work", 1}) {
		t.Errorf("TagAnalysis() = %v", got)
	}
}

func TestTagAnalysis_Empty(t *testing.T) {
	stats := NewStatsService(setupTestDB(t), testLogger())
	got, err := stats.TagAnalysis(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("TagAnalysis() = %#v, %v; want empty list", got, err)
	}
}

func TestSummary(t *testing.T) {
	rec, _, db := setupRecordService(t)
	checkins := NewCheckinService(db, testLogger())
	stats := NewStatsService(db, testLogger())
	stats.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	for _, d := range []string{"2024-03-10", "2024-03-04", "2024-03-03", "2024-01-01"} {
		rec.Create(ctx, recordInput("r", d), nil)
	}
	checkins.Create(ctx, CreateCheckinInput{Date: "2024-03-08", MoodScore: intPtr(7)})
	checkins.Create(ctx, CreateCheckinInput{Date: "2024-03-09", MoodScore: intPtr(8)})
	checkins.Create(ctx, CreateCheckinInput{Date: "2024-03-10"})

	got, err := stats.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if got.TotalRecords != 4 || got.TotalCheckins != 3 {
		t.Errorf("totals = %d records, %d checkins", got.TotalRecords, got.TotalCheckins)
	}
	if got.AvgMoodScore != 7.5 {
		t.Errorf("AvgMoodScore = %v, want 7.5", got.AvgMoodScore)
	}
	// window is 2024-03-04 .. 2024-03-10
	if got.RecentRecords != 2 {
		t.Errorf("RecentRecords = %d, want 2", got.RecentRecords)
	}
}

func TestSummary_NoMoodScores(t *testing.T) {
	stats := NewStatsService(setupTestDB(t), testLogger())
	got, err := stats.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if got.AvgMoodScore != 0 || got.TotalRecords != 0 {
		t.Errorf("Summary() = %+v", got)
	}
}
