package service

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"sort"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/util"

	"gorm.io/gorm"
)

// recentWindowDays is how far back the dashboard's "recent records" looks,
// today included.
const recentWindowDays = 7

// DailyCount is the number of records about one date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TagCount is how many records carry one tag.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary feeds the dashboard counters.
type Summary struct {
	TotalRecords  int64   `json:"total_records"`
	TotalCheckins int64   `json:"total_checkins"`
	AvgMoodScore  float64 `json:"avg_mood_score"`
	RecentRecords int64   `json:"recent_records"`
}

// StatsService aggregates over existing records and checkins.
type StatsService struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewStatsService(db *gorm.DB, logger *slog.Logger) *StatsService {
	return &StatsService{db: db, logger: logger, now: time.Now}
}

// MonthlyStats counts records per record_date within one month, ascending
// by date. Days without records are absent.
func (s *StatsService) MonthlyStats(ctx context.Context, year, month int) ([]DailyCount, error) {
	if err := util.ValidateYearMonth(year, month); err != nil {
		return nil, validationErr(err)
	}
	start, end := util.MonthRange(year, month)

	var records []models.Record
	if err := s.db.WithContext(ctx).
		Select("id", "record_date").
		Where("record_date >= ? AND record_date < ?", start, end).
		Order("record_date ASC").
		Find(&records).Error; err != nil {
		return nil, storageErr("monthly stats", err)
	}

	counts := make(map[string]int)
	var order []string
	for i := range records {
		key := util.FormatDate(records[i].RecordDate)
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]DailyCount, 0, len(order))
	for _, d := range order {
		out = append(out, DailyCount{Date: d, Count: counts[d]})
	}
	return out, nil
}

// TagAnalysis counts every tag across all records, most used first.
// Ties keep the order in which tags were first seen scanning by id.
func (s *StatsService) TagAnalysis(ctx context.Context) ([]TagCount, error) {
	var records []models.Record
	if err := s.db.WithContext(ctx).
		Select("id", "tags").
		Where("tags IS NOT NULL AND tags <> ''").
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, storageErr("tag analysis", err)
	}

	index := make(map[string]int)
	var out []TagCount
	for i := range records {
		for _, tag := range models.DecodeTags(records[i].Tags) {
			if j, ok := index[tag]; ok {
				out[j].Count++
				continue
			}
			index[tag] = len(out)
			out = append(out, TagCount{Name: tag, Count: 1})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if out == nil {
		out = []TagCount{}
	}
	return out, nil
}

// Summary returns totals for the dashboard.
func (s *StatsService) Summary(ctx context.Context) (*Summary, error) {
	db := s.db.WithContext(ctx)
	var sum Summary

	if err := db.Model(&models.Record{}).Count(&sum.TotalRecords).Error; err != nil {
		return nil, storageErr("count records", err)
	}
	if err := db.Model(&models.Checkin{}).Count(&sum.TotalCheckins).Error; err != nil {
		return nil, storageErr("count checkins", err)
	}

	var avg sql.NullFloat64
	if err := db.Model(&models.Checkin{}).
		Select("AVG(mood_score)").
		Where("mood_score IS NOT NULL").
		Row().Scan(&avg); err != nil {
		return nil, storageErr("average mood", err)
	}
	if avg.Valid {
		sum.AvgMoodScore = math.Round(avg.Float64*10) / 10
	}

	since := models.DateOnly(s.now()).AddDate(0, 0, -(recentWindowDays - 1))
	if err := db.Model(&models.Record{}).
		Where("record_date >= ?", since).
		Count(&sum.RecentRecords).Error; err != nil {
		return nil, storageErr("count recent records", err)
	}

	return &sum, nil
}
