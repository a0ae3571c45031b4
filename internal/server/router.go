package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Settings PUT bodies may carry two inline images, base64-inflated.
const bodyLimitFactor = 3

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), RequestLogger(s.metrics))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/ws"})))

	r.SetHTMLTemplate(boardTemplate())
	static, _ := fs.Sub(webFS, "web/static")
	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.handleBoard)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	api.GET("/ws", s.handleWS)
	api.GET("/settings", s.handleGetSettings)
	api.GET("/announcements", s.handleListAnnouncements)
	api.GET("/stream", s.handleGetStream)

	mutating := api.Group("",
		RateLimitMiddleware(s.limiter),
		MaxBytesMiddleware(bodyLimitFactor*s.config.Limits.MaxUploadBytes),
	)
	mutating.PUT("/settings", s.handlePutSettings)
	mutating.POST("/settings/reset", s.handleResetSettings)
	mutating.POST("/settings/images/:target", s.handleUploadImage)
	mutating.POST("/announcements", s.handleCreateAnnouncement)
	mutating.PUT("/announcements/:id", s.handleUpdateAnnouncement)
	mutating.DELETE("/announcements/:id", s.handleDeleteAnnouncement)
	mutating.PUT("/stream", s.handlePutStream)
	mutating.DELETE("/stream", s.handleClearStream)

	return r
}
