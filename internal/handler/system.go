package handler

import (
	"net/http"
	"time"

	"lifelog/internal/config"
	"lifelog/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const Version = "1.0.0"

// SystemHandler 健康检查与应用信息
type SystemHandler struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewSystemHandler(db *gorm.DB, cfg *config.Config) *SystemHandler {
	return &SystemHandler{DB: db, Config: cfg}
}

// Health 检查数据库连通性
func (h *SystemHandler) Health(c *gin.Context) {
	if err := database.Ping(h.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":         h.Config.App.Name,
		"version":     Version,
		"environment": h.Config.App.Environment,
		"database":    database.Dialect(h.Config.Database.URL),
		"endpoints": gin.H{
			"records":  "/api/records",
			"checkins": "/api/checkins",
			"stats":    "/api/stats",
		},
	})
}
