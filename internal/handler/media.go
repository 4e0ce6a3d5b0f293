package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"lifelog/internal/service"
	"lifelog/internal/storage"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// MediaHandler 下载记录附件
type MediaHandler struct {
	Records *service.RecordService
	Store   *storage.MediaStore
}

func NewMediaHandler(records *service.RecordService, store *storage.MediaStore) *MediaHandler {
	return &MediaHandler{Records: records, Store: store}
}

func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Not found")
		return
	}

	media, err := h.Records.GetMedia(c.Request.Context(), id)
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}

	f, err := h.Store.Open(media.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "media file not found")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", media.Filename))
	http.ServeContent(c.Writer, c.Request, media.Filename, info.ModTime(), f)
}
