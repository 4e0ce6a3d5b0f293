package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"lifelog/internal/service"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// 表单里附件字段的两种写法
var mediaFields = []string{"media", "media[]"}

// RecordHandler 负责日记记录相关接口
type RecordHandler struct {
	Records   *service.RecordService
	MaxMemory int64
	Logger    *slog.Logger
}

func NewRecordHandler(records *service.RecordService, maxMemory int64, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		Records:   records,
		MaxMemory: maxMemory,
		Logger:    logger,
	}
}

// ---------- 新建记录 ----------

// CreateRecord 接收 multipart 表单（也接受普通表单，此时没有附件）
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	if err := h.parseForm(c.Request); err != nil {
		badRequest(c, err, "invalid form: "+err.Error())
		return
	}

	in := service.CreateRecordInput{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		Mood:       c.PostForm("mood"),
		Weather:    c.PostForm("weather"),
		Location:   c.PostForm("location"),
		RecordDate: c.PostForm("record_date"),
		Tags:       c.PostForm("tags"),
	}

	id, err := h.Records.Create(c.Request.Context(), in, uploadedFiles(c.Request.MultipartForm))
	if err != nil {
		h.Logger.Warn("create record failed", "error", err)
		util.ErrorFrom(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "Record created successfully",
		"id":      id,
	})
}

func (h *RecordHandler) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(h.MaxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func uploadedFiles(form *multipart.Form) []service.UploadedFile {
	if form == nil {
		return nil
	}
	var files []service.UploadedFile
	for _, field := range mediaFields {
		for _, fh := range form.File[field] {
			if fh.Filename == "" {
				continue
			}
			fh := fh
			files = append(files, service.UploadedFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Open:        func() (io.ReadCloser, error) { return fh.Open() },
			})
		}
	}
	return files
}

// ---------- 列表 / 搜索 ----------

func (h *RecordHandler) ListRecords(c *gin.Context) {
	page, err := h.Records.List(c.Request.Context(), service.ListQuery{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 0),
		Search:  c.Query("search"),
	})
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"records":  page.Records,
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
		"pages":    page.Pages,
	})
}

// ---------- 单条详情 ----------

func (h *RecordHandler) GetRecord(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Not found")
		return
	}

	record, err := h.Records.Get(c.Request.Context(), id)
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}

	util.Success(c, http.StatusOK, util.Response{"record": record})
}
