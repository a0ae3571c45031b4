package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/panel"
	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/version"
)

// VersionHeader carries the version of the value in a response.
const VersionHeader = "X-Papan-Version"

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  version.Version,
		"displays": s.hub.Count(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleWS(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request, Message{
		Version:  s.store.Version(),
		Versions: map[string]uint64{
			MsgSettings:      s.store.Version(),
			MsgAnnouncements: s.board.Version(),
			MsgStream:        s.streamVersion.Load(),
		},
	})
}

// Settings

func (s *Server) handleGetSettings(c *gin.Context) {
	c.Header(VersionHeader, strconv.FormatUint(s.store.Version(), 10))
	c.JSON(http.StatusOK, s.store.Current())
}

func (s *Server) handlePutSettings(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errorJSON(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	cfg, ok := settings.Decode(body)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "settings must be a complete record",
			"missing": settings.Missing(body),
		})
		return
	}

	s.store.Replace(cfg)
	c.Header(VersionHeader, strconv.FormatUint(s.store.Version(), 10))
	c.JSON(http.StatusOK, s.store.Current())
}

func (s *Server) handleResetSettings(c *gin.Context) {
	s.store.Replace(settings.Default())
	c.Header(VersionHeader, strconv.FormatUint(s.store.Version(), 10))
	c.JSON(http.StatusOK, s.store.Current())
}

func (s *Server) handleUploadImage(c *gin.Context) {
	target, err := panel.ParseImageTarget(c.Param("target"))
	if err != nil {
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	if fh.Size > s.config.Limits.MaxUploadBytes {
		errorJSON(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	uri, err := panel.ImageDataURI(f)
	switch {
	case errors.Is(err, panel.ErrNotImage):
		errorJSON(c, http.StatusUnsupportedMediaType, err.Error())
		return
	case errors.Is(err, panel.ErrImageTooLarge):
		errorJSON(c, http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	cfg := s.store.Update(func(cfg *settings.Config) {
		panel.ApplyImage(cfg, target, uri)
	})

	c.Header(VersionHeader, strconv.FormatUint(s.store.Version(), 10))
	c.JSON(http.StatusOK, cfg)
}

// Announcements

func (s *Server) handleListAnnouncements(c *gin.Context) {
	c.Header(VersionHeader, strconv.FormatUint(s.board.Version(), 10))
	c.JSON(http.StatusOK, s.board.List())
}

// editable aborts with 403 when the record has announcement editing off.
func (s *Server) editable(c *gin.Context) bool {
	if !s.store.Current().EnableAnnouncementEditing {
		errorJSON(c, http.StatusForbidden, announcement.ErrEditingDisabled.Error())
		return false
	}
	return true
}

func bindAnnouncement(c *gin.Context) (announcement.Announcement, bool) {
	var a announcement.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid announcement: "+err.Error())
		return a, false
	}
	if err := announcement.Validate(a); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return a, false
	}
	return a, true
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "invalid announcement id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleCreateAnnouncement(c *gin.Context) {
	if !s.editable(c) {
		return
	}
	a, ok := bindAnnouncement(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, s.board.Create(a))
}

func (s *Server) handleUpdateAnnouncement(c *gin.Context) {
	if !s.editable(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, ok := bindAnnouncement(c)
	if !ok {
		return
	}
	a.ID = id
	if err := s.board.Update(a); err != nil {
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleDeleteAnnouncement(c *gin.Context) {
	if !s.editable(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.board.Delete(id); err != nil {
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream

type streamRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleGetStream(c *gin.Context) {
	c.Header(VersionHeader, strconv.FormatUint(s.streamVersion.Load(), 10))
	c.JSON(http.StatusOK, s.stream.Source())
}

func (s *Server) handlePutStream(c *gin.Context) {
	var req streamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid stream request: "+err.Error())
		return
	}
	if !s.stream.Override(req.URL) {
		c.Status(http.StatusNoContent)
		return
	}
	s.streamChanged()
	c.JSON(http.StatusOK, s.stream.Source())
}

func (s *Server) handleClearStream(c *gin.Context) {
	if s.stream.Clear() {
		s.streamChanged()
	}
	c.JSON(http.StatusOK, s.stream.Source())
}
