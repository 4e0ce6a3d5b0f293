package handler

import (
	"net/http"
	"strconv"
	"time"

	"lifelog/internal/service"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// StatsHandler 负责统计接口
type StatsHandler struct {
	Stats *service.StatsService
	now   func() time.Time
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{Stats: stats, now: time.Now}
}

// GetMonthlyStats 某年某月每天的记录数，year/month 缺省为当前月份
func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	now := h.now()
	year, ok := intQuery(c, "year", now.Year())
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
		return
	}
	month, ok := intQuery(c, "month", int(now.Month()))
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month")
		return
	}

	stats, err := h.Stats.MonthlyStats(c.Request.Context(), year, month)
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}
	util.Success(c, http.StatusOK, util.Response{"stats": stats})
}

func (h *StatsHandler) GetTagAnalysis(c *gin.Context) {
	tags, err := h.Stats.TagAnalysis(c.Request.Context())
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}
	util.Success(c, http.StatusOK, util.Response{"tags": tags})
}

func (h *StatsHandler) GetSummary(c *gin.Context) {
	summary, err := h.Stats.Summary(c.Request.Context())
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}
	util.Success(c, http.StatusOK, util.Response{"summary": summary})
}

// intQuery 与 queryInt 不同：参数存在但非法时报错
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}
