package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/util"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

const (
	defaultCheckinLimit = 30
	maxCheckinLimit     = 365
)

// CreateCheckinInput is the JSON body of a new checkin.
type CreateCheckinInput struct {
	Date            string   `json:"date"`
	SleepHours      *float64 `json:"sleep_hours"`
	ExerciseMinutes *int     `json:"exercise_minutes"`
	WaterIntake     *int     `json:"water_intake"`
	MoodScore       *int     `json:"mood_score"`
	Notes           string   `json:"notes"`
}

func (in CreateCheckinInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
	)
}

// CheckinView is the API shape of a checkin.
type CheckinView struct {
	ID              uint      `json:"id"`
	Date            string    `json:"date"`
	SleepHours      *float64  `json:"sleep_hours"`
	ExerciseMinutes *int      `json:"exercise_minutes"`
	WaterIntake     *int      `json:"water_intake"`
	MoodScore       *int      `json:"mood_score"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// CheckinService records one wellness log per day.
type CheckinService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCheckinService(db *gorm.DB, logger *slog.Logger) *CheckinService {
	return &CheckinService{db: db, logger: logger}
}

// Create inserts a checkin unless one already exists for the date.
// The existence check and the insert are not atomic: two concurrent
// requests for the same date can both succeed.
func (s *CheckinService) Create(ctx context.Context, in CreateCheckinInput) (uint, error) {
	in.Date = strings.TrimSpace(in.Date)
	if err := in.Validate(); err != nil {
		return 0, validationErr(err)
	}
	date, err := util.ParseDate(in.Date)
	if err != nil {
		return 0, validationErr(err)
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.Checkin{}).Where("date = ?", date).Count(&existing).Error; err != nil {
		return 0, storageErr("check existing checkin", err)
	}
	if existing > 0 {
		return 0, &ConflictError{Message: "already checked in on " + in.Date}
	}

	checkin := models.Checkin{
		Date:            date,
		SleepHours:      in.SleepHours,
		ExerciseMinutes: in.ExerciseMinutes,
		WaterIntake:     in.WaterIntake,
		MoodScore:       in.MoodScore,
		Notes:           in.Notes,
	}
	if err := db.Create(&checkin).Error; err != nil {
		return 0, storageErr("insert checkin", err)
	}

	s.logger.Info("checkin created", "id", checkin.ID, "date", in.Date)
	return checkin.ID, nil
}

// GetByDate returns the checkin of one day.
func (s *CheckinService) GetByDate(ctx context.Context, dateStr string) (*CheckinView, error) {
	date, err := util.ParseDate(dateStr)
	if err != nil {
		return nil, validationErr(err)
	}

	var checkin models.Checkin
	if err := s.db.WithContext(ctx).Where("date = ?", date).Order("id ASC").First(&checkin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "checkin", ID: dateStr}
		}
		return nil, storageErr("get checkin", err)
	}
	v := toCheckinView(&checkin)
	return &v, nil
}

// Recent returns up to limit checkins, newest date first.
func (s *CheckinService) Recent(ctx context.Context, limit int) ([]CheckinView, error) {
	if limit <= 0 {
		limit = defaultCheckinLimit
	}
	if limit > maxCheckinLimit {
		limit = maxCheckinLimit
	}

	var checkins []models.Checkin
	if err := s.db.WithContext(ctx).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&checkins).Error; err != nil {
		return nil, storageErr("list checkins", err)
	}

	out := make([]CheckinView, 0, len(checkins))
	for i := range checkins {
		out = append(out, toCheckinView(&checkins[i]))
	}
	return out, nil
}

func toCheckinView(c *models.Checkin) CheckinView {
	return CheckinView{
		ID:              c.ID,
		Date:            util.FormatDate(c.Date),
		SleepHours:      c.SleepHours,
		ExerciseMinutes: c.ExerciseMinutes,
		WaterIntake:     c.WaterIntake,
		MoodScore:       c.MoodScore,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
	}
}
