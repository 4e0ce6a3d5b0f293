package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/storage"
	"lifelog/internal/util"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
	summaryLength  = 100
)

// CreateRecordInput carries the form fields of a new record.
type CreateRecordInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Mood       string `json:"mood"`
	Weather    string `json:"weather"`
	Location   string `json:"location"`
	RecordDate string `json:"record_date"`
	Tags       string `json:"tags"`
}

func (in CreateRecordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&in.Content, validation.Required, validation.By(notBlank)),
		validation.Field(&in.Mood, validation.Length(0, 20)),
		validation.Field(&in.Weather, validation.Length(0, 20)),
		validation.Field(&in.Location, validation.Length(0, 100)),
		validation.Field(&in.RecordDate, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.Tags, validation.Length(0, 500)),
	)
}

func notBlank(value interface{}) error {
	if s, ok := value.(string); ok && s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// UploadedFile is one attachment of a create request.
type UploadedFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// ListQuery selects one page of records.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
}

// MediaView is the API shape of an attachment.
type MediaView struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	URL      string `json:"url"`
}

// RecordDetail is a full record with its attachments.
type RecordDetail struct {
	ID         uint        `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Mood       string      `json:"mood"`
	Weather    string      `json:"weather"`
	Location   string      `json:"location"`
	RecordDate string      `json:"record_date"`
	Tags       []string    `json:"tags"`
	Media      []MediaView `json:"media"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// RecordSummary is the list shape: truncated content and a media count.
type RecordSummary struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Mood       string    `json:"mood"`
	Weather    string    `json:"weather"`
	Location   string    `json:"location"`
	RecordDate string    `json:"record_date"`
	Tags       []string  `json:"tags"`
	MediaCount int       `json:"media_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordPage is one page of list results.
type RecordPage struct {
	Records []RecordSummary `json:"records"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Pages   int             `json:"pages"`
}

// RecordService creates and queries journal records.
type RecordService struct {
	db             *gorm.DB
	store          *storage.MediaStore
	logger         *slog.Logger
	defaultPerPage int
}

func NewRecordService(db *gorm.DB, store *storage.MediaStore, perPage int, logger *slog.Logger) *RecordService {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &RecordService{
		db:             db,
		store:          store,
		logger:         logger,
		defaultPerPage: perPage,
	}
}

// Create stores the record and its allowed attachments in one transaction
// and returns the new id. Files with extensions outside the allow-list are
// skipped without error. Files already written stay on disk if the
// transaction later rolls back.
func (s *RecordService) Create(ctx context.Context, in CreateRecordInput, files []UploadedFile) (uint, error) {
	in.Mood = strings.TrimSpace(in.Mood)
	in.Weather = strings.TrimSpace(in.Weather)
	in.Location = strings.TrimSpace(in.Location)
	in.RecordDate = strings.TrimSpace(in.RecordDate)

	if err := in.Validate(); err != nil {
		return 0, validationErr(err)
	}
	recordDate, err := util.ParseDate(in.RecordDate)
	if err != nil {
		return 0, validationErr(err)
	}

	record := models.Record{
		Title:      in.Title,
		Content:    in.Content,
		Mood:       in.Mood,
		Weather:    in.Weather,
		Location:   in.Location,
		RecordDate: recordDate,
		Tags:       models.NormalizeTags(in.Tags),
	}

	var written []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return storageErr("insert record", err)
		}

		for _, f := range files {
			if !s.store.Allowed(f.Filename) {
				s.logger.Debug("skipping media with disallowed extension",
					"record_id", record.ID,
					"filename", f.Filename,
				)
				continue
			}

			name := storage.SecureFilename(fmt.Sprintf("%d_%s", record.ID, f.Filename))
			fileType, err := s.saveUpload(name, f)
			if err != nil {
				return storageErr("save media", err)
			}
			written = append(written, name)

			media := models.Media{
				Filename: name,
				FileType: fileType,
				RecordID: record.ID,
			}
			if err := tx.Create(&media).Error; err != nil {
				return storageErr("insert media", err)
			}
		}
		return nil
	})
	if err != nil {
		if len(written) > 0 {
			s.logger.Warn("record rolled back, media files left on disk",
				"files", written,
				"error", err,
			)
		}
		return 0, err
	}

	s.logger.Info("record created",
		"id", record.ID,
		"record_date", util.FormatDate(record.RecordDate),
		"media", len(written),
	)
	return record.ID, nil
}

func (s *RecordService) saveUpload(name string, f UploadedFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", f.Filename, err)
	}
	defer rc.Close()
	return s.store.Save(name, f.ContentType, rc)
}

// Get returns one record with its attachments.
func (s *RecordService) Get(ctx context.Context, id uint) (*RecordDetail, error) {
	var record models.Record
	err := s.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "record", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, storageErr("get record", err)
	}
	return toRecordDetail(&record), nil
}

// GetMedia returns one attachment row.
func (s *RecordService) GetMedia(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	if err := s.db.WithContext(ctx).First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "media", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, storageErr("get media", err)
	}
	return &media, nil
}

// List returns one page of records ordered by record_date descending, then
// id descending. A non-empty search keeps records whose title, content or
// tags contain it as a case-sensitive substring.
func (s *RecordService) List(ctx context.Context, q ListQuery) (*RecordPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = s.defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}

	base := s.db.WithContext(ctx).Model(&models.Record{})
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		base = base.Where(
			`title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, storageErr("count records", err)
	}

	pages := (total + int64(q.PerPage) - 1) / int64(q.PerPage)
	result := &RecordPage{
		Records: []RecordSummary{},
		Total:   total,
		Page:    q.Page,
		PerPage: q.PerPage,
		Pages:   int(pages),
	}
	// 超出范围的页直接返回空列表，避免 offset 溢出
	if int64(q.Page-1) >= pages {
		return result, nil
	}

	var records []models.Record
	if err := base.Session(&gorm.Session{}).
		Preload("Media").
		Order("record_date DESC, id DESC").
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&records).Error; err != nil {
		return nil, storageErr("list records", err)
	}

	result.Records = make([]RecordSummary, 0, len(records))
	for i := range records {
		result.Records = append(result.Records, toRecordSummary(&records[i]))
	}
	return result, nil
}

// All returns every record with attachments, newest record_date first.
func (s *RecordService) All(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	if err := s.db.WithContext(ctx).
		Preload("Media").
		Order("record_date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, storageErr("list records", err)
	}
	return records, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// MediaURL is the download path of an attachment.
func MediaURL(id uint) string {
	return "/api/media/" + strconv.FormatUint(uint64(id), 10)
}

func toRecordDetail(r *models.Record) *RecordDetail {
	media := make([]MediaView, 0, len(r.Media))
	for _, m := range r.Media {
		media = append(media, MediaView{
			ID:       m.ID,
			Filename: m.Filename,
			FileType: m.FileType,
			URL:      MediaURL(m.ID),
		})
	}
	return &RecordDetail{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Mood:       r.Mood,
		Weather:    r.Weather,
		Location:   r.Location,
		RecordDate: util.FormatDate(r.RecordDate),
		Tags:       models.DecodeTags(r.Tags),
		Media:      media,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toRecordSummary(r *models.Record) RecordSummary {
	return RecordSummary{
		ID:         r.ID,
		Title:      r.Title,
		Content:    util.Truncate(r.Content, summaryLength),
		Mood:       r.Mood,
		Weather:    r.Weather,
		Location:   r.Location,
		RecordDate: util.FormatDate(r.RecordDate),
		Tags:       models.DecodeTags(r.Tags),
		MediaCount: len(r.Media),
		CreatedAt:  r.CreatedAt,
	}
}
