// Package api provides the REST API server for keychord
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/keychord/keychord/pkg/chord"
	"github.com/keychord/keychord/pkg/piano"
)

// @title KeyChord API
// @version 1.0
// @description API for playing, capturing and replaying piano notes
// @host localhost:8080
// @BasePath /api/v1

// Server wraps a piano model behind HTTP handlers.
type Server struct {
	model *piano.Model
}

// NewServer creates a Server around the given model.
func NewServer(m *piano.Model) *Server {
	return &Server{model: m}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)

		v1.GET("/recordings", s.listRecordings)
		v1.GET("/recordings/:name", s.getRecording)
		v1.DELETE("/recordings/:name", s.deleteRecording)
		v1.PUT("/recordings/:name", s.renameRecording)
		v1.POST("/recordings/:name/export", s.exportRecording)

		v1.POST("/record/start", s.startRecording)
		v1.POST("/record/stop", s.stopRecording)
		v1.GET("/record/status", s.recordStatus)

		v1.POST("/notes/on", s.noteOn)
		v1.POST("/notes/off", s.noteOff)
		v1.POST("/chords/on", s.chordOn)
		v1.POST("/chords/off", s.chordOff)

		v1.POST("/playback/start", s.startPlayback)
		v1.POST("/playback/stop", s.stopPlayback)
		v1.GET("/playback/status", s.playbackStatus)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int, m *piano.Model) error {
	return NewServer(m).Router().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "keychord",
	})
}

type recordingSummary struct {
	Name       string `json:"name"`
	Events     int    `json:"events"`
	DurationMs int64  `json:"duration_ms"`
}

// listRecordings godoc
// @Summary List stored recordings
// @Tags recordings
// @Produce json
// @Success 200 {object} map[string][]recordingSummary
// @Router /recordings [get]
func (s *Server) listRecordings(c *gin.Context) {
	store := s.model.Store()
	summaries := make([]recordingSummary, 0)
	for _, name := range store.List() {
		rec, ok := store.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, recordingSummary{
			Name:       rec.Name(),
			Events:     rec.Len(),
			DurationMs: rec.Duration().Milliseconds(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"recordings": summaries})
}

type eventJSON struct {
	Key      uint8 `json:"key"`
	OffsetMs int64 `json:"offset_ms"`
	On       bool  `json:"on"`
}

// getRecording godoc
// @Summary Get one recording with its events
// @Tags recordings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /recordings/{name} [get]
func (s *Server) getRecording(c *gin.Context) {
	name := c.Param("name")
	rec, ok := s.model.Store().Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}

	events := rec.Events()
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, eventJSON{Key: ev.Key(), OffsetMs: ev.OffsetMs(), On: ev.IsOn()})
	}
	c.JSON(http.StatusOK, gin.H{
		"name":        rec.Name(),
		"duration_ms": rec.Duration().Milliseconds(),
		"created_at":  rec.CreatedAt(),
		"events":      out,
	})
}

// deleteRecording godoc
// @Summary Delete a recording
// @Tags recordings
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /recordings/{name} [delete]
func (s *Server) deleteRecording(c *gin.Context) {
	name := c.Param("name")
	if !s.model.Store().Delete(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

type renameRequest struct {
	Name string `json:"name"`
}

// renameRecording godoc
// @Summary Rename a recording
// @Tags recordings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /recordings/{name} [put]
func (s *Server) renameRecording(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	oldName := c.Param("name")
	ok, err := s.model.Store().Rename(oldName, req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"renamed": req.Name})
}

type exportRequest struct {
	Path string `json:"path"`
}

// exportRecording godoc
// @Summary Export a recording as a Standard MIDI File
// @Tags recordings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /recordings/{name}/export [post]
func (s *Server) exportRecording(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "export path is required"})
		return
	}

	name := c.Param("name")
	if _, ok := s.model.Store().Get(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	if err := s.model.Store().ExportSMF(name, req.Path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("export failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": req.Path})
}

// startRecording godoc
// @Summary Start a capture session
// @Tags record
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /record/start [post]
func (s *Server) startRecording(c *gin.Context) {
	s.model.StartRecording()
	c.JSON(http.StatusOK, gin.H{"recording": true})
}

type stopRequest struct {
	Name string `json:"name"`
}

// stopRecording godoc
// @Summary Stop the capture session and save it
// @Tags record
// @Accept json
// @Produce json
// @Success 200 {object} recordingSummary
// @Failure 404 {object} map[string]string
// @Router /record/stop [post]
func (s *Server) stopRecording(c *gin.Context) {
	var req stopRequest
	// Body is optional; an absent name means auto-naming.
	_ = c.ShouldBindJSON(&req)

	saved := s.model.StopRecording(req.Name)
	if saved == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recording in progress"})
		return
	}
	c.JSON(http.StatusOK, recordingSummary{
		Name:       saved.Name(),
		Events:     saved.Len(),
		DurationMs: saved.Duration().Milliseconds(),
	})
}

// recordStatus godoc
// @Summary Report capture status
// @Tags record
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /record/status [get]
func (s *Server) recordStatus(c *gin.Context) {
	status := gin.H{"recording": s.model.IsRecording()}
	if elapsed, ok := s.model.Recorder().Elapsed(); ok {
		status["elapsed_ms"] = elapsed.Milliseconds()
	}
	c.JSON(http.StatusOK, status)
}

type noteRequest struct {
	Key      uint8  `json:"key"`
	Velocity *uint8 `json:"velocity,omitempty"`
}

// noteOn godoc
// @Summary Press a note
// @Tags notes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]uint8
// @Failure 400 {object} map[string]string
// @Router /notes/on [post]
func (s *Server) noteOn(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var err error
	if req.Velocity != nil {
		err = s.model.PressNoteVelocity(req.Key, *req.Velocity)
	} else {
		err = s.model.PressNote(req.Key)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key})
}

// noteOff godoc
// @Summary Release a note
// @Tags notes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]uint8
// @Failure 400 {object} map[string]string
// @Router /notes/off [post]
func (s *Server) noteOff(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.model.ReleaseNote(req.Key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key})
}

type chordRequest struct {
	Root    uint8  `json:"root"`
	Quality string `json:"quality"`
}

// chordOn godoc
// @Summary Press a chord built on a root note
// @Tags chords
// @Accept json
// @Produce json
// @Success 200 {object} map[string][]uint8
// @Failure 400 {object} map[string]string
// @Router /chords/on [post]
func (s *Server) chordOn(c *gin.Context) {
	s.handleChord(c, s.model.PressChord)
}

// chordOff godoc
// @Summary Release a chord built on a root note
// @Tags chords
// @Accept json
// @Produce json
// @Success 200 {object} map[string][]uint8
// @Failure 400 {object} map[string]string
// @Router /chords/off [post]
func (s *Server) chordOff(c *gin.Context) {
	s.handleChord(c, s.model.ReleaseChord)
}

func (s *Server) handleChord(c *gin.Context, fn func(uint8, chord.Quality) ([]uint8, error)) {
	var req chordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quality := chord.Major
	if req.Quality != "" {
		q, err := chord.ParseQuality(req.Quality)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quality = q
	}

	keys, err := fn(req.Root, quality)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

type playRequest struct {
	Name string `json:"name"`
}

// startPlayback godoc
// @Summary Replay a stored recording
// @Tags playback
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /playback/start [post]
func (s *Server) startPlayback(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recording name is required"})
		return
	}
	if err := s.model.Play(req.Name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": req.Name})
}

// stopPlayback godoc
// @Summary Stop playback
// @Tags playback
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /playback/stop [post]
func (s *Server) stopPlayback(c *gin.Context) {
	s.model.StopPlayback()
	c.JSON(http.StatusOK, gin.H{"playing": false})
}

// playbackStatus godoc
// @Summary Report playback status
// @Tags playback
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /playback/status [get]
func (s *Server) playbackStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"playing": s.model.IsPlaying()})
}
