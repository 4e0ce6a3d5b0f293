package router

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"lifelog/internal/config"
	"lifelog/internal/handler"
	"lifelog/internal/middleware"
	"lifelog/internal/service"
	"lifelog/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, API routes and the static frontend.
func SetupRouter(cfg *config.Config, db *gorm.DB, store *storage.MediaStore, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxSize
	r.Use(
		middleware.RequestLogger(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg.CORS.Origins)),
		middleware.BodyLimit(cfg.Upload.MaxSize),
	)

	// services
	records := service.NewRecordService(db, store, cfg.App.PageSize, logger)
	checkins := service.NewCheckinService(db, logger)
	stats := service.NewStatsService(db, logger)
	backups := service.NewBackupService(db, cfg.Backup.Dir, cfg.Backup.Key, logger)

	systemHandler := handler.NewSystemHandler(db, cfg)
	r.GET("/health", systemHandler.Health)

	// ====== API ======
	api := r.Group("/api")
	api.GET("/info", systemHandler.Info)

	recordHandler := handler.NewRecordHandler(records, cfg.Upload.MaxSize, logger)
	api.POST("/records", recordHandler.CreateRecord)
	api.GET("/records", recordHandler.ListRecords)
	api.GET("/records/:id", recordHandler.GetRecord)

	mediaHandler := handler.NewMediaHandler(records, store)
	api.GET("/media/:id", mediaHandler.GetMedia)

	checkinHandler := handler.NewCheckinHandler(checkins, logger)
	api.POST("/checkins", checkinHandler.CreateCheckin)
	api.GET("/checkins", checkinHandler.ListCheckins)
	api.GET("/checkins/:date", checkinHandler.GetCheckin)

	statsHandler := handler.NewStatsHandler(stats)
	api.GET("/stats/monthly", statsHandler.GetMonthlyStats)
	api.GET("/stats/summary", statsHandler.GetSummary)
	api.GET("/tags/analysis", statsHandler.GetTagAnalysis)

	exportHandler := handler.NewExportHandler(records)
	api.GET("/export/csv", exportHandler.ExportCSV)
	api.GET("/export/xlsx", exportHandler.ExportXLSX)

	backupHandler := handler.NewBackupHandler(backups, logger)
	api.POST("/backups", backupHandler.CreateBackup)
	api.GET("/backups", backupHandler.ListBackups)
	api.POST("/backups/:name/restore", backupHandler.RestoreBackup)

	// 前端静态文件；未知的 /api 路径返回 JSON 404
	r.NoRoute(staticHandler(cfg.Static.Dir))

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func staticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			notFound(c)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}

		name := path.Clean("/" + p)
		if name == "/" {
			name = "/index.html"
		}
		file := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			notFound(c)
			return
		}
		c.File(file)
	}
}
