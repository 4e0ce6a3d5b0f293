package handler

import (
	"log/slog"
	"net/http"

	"lifelog/internal/service"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// CheckinHandler 负责每日打卡接口
type CheckinHandler struct {
	Checkins *service.CheckinService
	Logger   *slog.Logger
}

func NewCheckinHandler(checkins *service.CheckinService, logger *slog.Logger) *CheckinHandler {
	return &CheckinHandler{Checkins: checkins, Logger: logger}
}

func (h *CheckinHandler) CreateCheckin(c *gin.Context) {
	var req service.CreateCheckinInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "invalid JSON body: "+err.Error())
		return
	}

	id, err := h.Checkins.Create(c.Request.Context(), req)
	if err != nil {
		h.Logger.Warn("create checkin failed", "date", req.Date, "error", err)
		util.ErrorFrom(c, err, http.StatusBadRequest)
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "Checkin created successfully",
		"id":      id,
	})
}

// ListCheckins 最近的打卡，按日期倒序
func (h *CheckinHandler) ListCheckins(c *gin.Context) {
	list, err := h.Checkins.Recent(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}
	util.Success(c, http.StatusOK, util.Response{"checkins": list})
}

func (h *CheckinHandler) GetCheckin(c *gin.Context) {
	checkin, err := h.Checkins.GetByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}
	util.Success(c, http.StatusOK, util.Response{"checkin": checkin})
}
