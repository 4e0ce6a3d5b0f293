package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"lifelog/internal/service"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler 负责备份相关接口
type BackupHandler struct {
	Backups *service.BackupService
	Logger  *slog.Logger
}

// NewBackupHandler 构造函数
func NewBackupHandler(backups *service.BackupService, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{Backups: backups, Logger: logger}
}

// backupError 未配置密钥时返回 503
func backupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrBackupDisabled) {
		util.Error(c, http.StatusServiceUnavailable, util.CodeUnavailable, err.Error())
		return
	}
	util.ErrorFrom(c, err, http.StatusInternalServerError)
}

// CreateBackup 生成全部数据的加密备份文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	info, err := h.Backups.Create(c.Request.Context())
	if err != nil {
		h.Logger.Error("create backup failed", "error", err)
		backupError(c, err)
		return
	}
	util.Success(c, http.StatusCreated, util.Response{"backup": info})
}

// ListBackups 列出已有的备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	if !h.Backups.Enabled() {
		backupError(c, service.ErrBackupDisabled)
		return
	}
	list, err := h.Backups.List()
	if err != nil {
		backupError(c, err)
		return
	}
	util.Success(c, http.StatusOK, util.Response{"items": list})
}

// RestoreBackup 用指定备份覆盖当前全部数据
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	res, err := h.Backups.Restore(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Logger.Error("restore backup failed", "name", c.Param("name"), "error", err)
		backupError(c, err)
		return
	}
	util.Success(c, http.StatusOK, util.Response{
		"message":  "Backup restored",
		"restored": res,
	})
}
