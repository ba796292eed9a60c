// HTTP surface for the dashboard: application lifecycle, generation,
// document versions, tasks and evidence.

package api

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-jobcoach/internal/database"
	"go-jobcoach/internal/keywords"
	"go-jobcoach/internal/models"
	"go-jobcoach/internal/pipeline"
	"go-jobcoach/internal/quality"
	"go-jobcoach/internal/reporter"
	"go-jobcoach/internal/storage"
	"go-jobcoach/internal/versions"
)

type Server struct {
	store     *database.Repository
	pipe      *pipeline.Pipeline
	uploader  storage.Uploader
	reporter  *reporter.TelegramReporter // nil when not configured
	extractor *keywords.Extractor
}

func NewServer(store *database.Repository, pipe *pipeline.Pipeline, uploader storage.Uploader,
	rep *reporter.TelegramReporter, extractor *keywords.Extractor) *Server {
	return &Server{store: store, pipe: pipe, uploader: uploader, reporter: rep, extractor: extractor}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.POST("/applications", s.createApplication)
	r.GET("/applications", s.listApplications)
	r.GET("/applications/:id", s.getApplication)
	r.PUT("/applications/:id/facts", s.saveFacts)
	r.POST("/applications/:id/archive", s.archiveApplication)
	r.POST("/applications/:id/generate", s.generate)
	r.POST("/applications/:id/modules/:key/regenerate", s.regenerateModule)
	r.PUT("/applications/:id/documents/:doc", s.saveDocument)
	r.POST("/applications/:id/documents/:doc/snapshot", s.snapshotDocument)
	r.POST("/applications/:id/documents/:doc/restore", s.restoreDocument)
	r.GET("/applications/:id/tasks", s.listTasks)
	r.PATCH("/tasks/:id", s.setTaskStatus)
	r.POST("/evidence", s.createEvidence)
	r.GET("/evidence", s.listEvidence)

	return r
}

func (s *Server) createApplication(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Title  string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := s.store.CreateApplication(c.Request.Context(), req.UserID, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (s *Server) listApplications(c *gin.Context) {
	userID := c.Query("user")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user query parameter is required"})
		return
	}
	apps, err := s.store.ListApplications(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) getApplication(c *gin.Context) {
	app, err := s.store.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app)
}

// saveFacts updates the confirmed facts and the lock flag. Locking attaches
// a fresh quality report so the dashboard can show input issues immediately.
func (s *Server) saveFacts(c *gin.Context) {
	var req struct {
		Facts  models.ConfirmedFacts `json:"facts" binding:"required"`
		Locked bool                  `json:"locked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Locked {
		kws := s.extractor.Extract(req.Facts.JobDescription, 0)
		report := quality.Evaluate(req.Facts.JobDescription, kws)
		req.Facts.Quality = &report
	}

	if err := s.store.SaveFacts(c.Request.Context(), c.Param("id"), &req.Facts, req.Locked); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": req.Locked, "quality": req.Facts.Quality})
}

func (s *Server) archiveApplication(c *gin.Context) {
	if err := s.store.SetApplicationStatus(c.Request.Context(), c.Param("id"), models.StatusArchived); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusArchived})
}

func (s *Server) generate(c *gin.Context) {
	var req struct {
		Modules []string `json:"modules"`
	}
	// An empty or absent body means "all modules".
	_ = c.ShouldBindJSON(&req)

	var keys []models.ModuleKey
	for _, name := range req.Modules {
		key, err := models.ParseModuleKey(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		keys = append(keys, key)
	}

	s.runPipeline(c, c.Param("id"), keys...)
}

func (s *Server) regenerateModule(c *gin.Context) {
	key, err := models.ParseModuleKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.runPipeline(c, c.Param("id"), key)
}

func (s *Server) runPipeline(c *gin.Context, appID string, keys ...models.ModuleKey) {
	res, err := s.pipe.Run(c.Request.Context(), appID, keys...)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrRunInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, pipeline.ErrFactsNotLocked):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	s.notifyRun(appID, res)

	c.JSON(http.StatusOK, gin.H{
		"keywords": res.Keywords,
		"quality":  res.Quality,
		"scores":   res.Scores,
		"statuses": res.Statuses,
		"errors":   moduleErrorsByName(res),
	})
}

func (s *Server) notifyRun(appID string, res *pipeline.RunResult) {
	if s.reporter == nil {
		return
	}
	app, err := s.store.GetApplication(context.Background(), appID)
	if err != nil {
		log.Printf("⚠️ Could not load application for notification: %v", err)
		return
	}
	go func() {
		if err := s.reporter.SendRunSummary(app, res); err != nil {
			log.Printf("⚠️ Telegram notification failed: %v", err)
		}
	}()
}

func (s *Server) saveDocument(c *gin.Context) {
	kind, ok := models.ParseDocKind(c.Param("doc"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document kind"})
		return
	}
	var req struct {
		ContentHTML string `json:"content_html"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := s.store.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc := docFor(app, kind)
	doc.ContentHTML = req.ContentHTML
	if err := s.store.SaveDocument(c.Request.Context(), app.ID, kind, *doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (s *Server) snapshotDocument(c *gin.Context) {
	kind, ok := models.ParseDocKind(c.Param("doc"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document kind"})
		return
	}
	var req struct {
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Label == "" {
		req.Label = "Manual snapshot"
	}

	app, err := s.store.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc := docFor(app, kind)
	v := versions.Snapshot(doc, req.Label, time.Now())
	if err := s.store.SaveDocument(c.Request.Context(), app.ID, kind, *doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, v)
}

// restoreDocument overwrites content with a stored version. A stale version
// id is not an error: the UI may hold references evicted by the cap.
func (s *Server) restoreDocument(c *gin.Context) {
	kind, ok := models.ParseDocKind(c.Param("doc"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document kind"})
		return
	}
	var req struct {
		VersionID string `json:"version_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := s.store.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc := docFor(app, kind)
	restored := versions.Restore(doc, req.VersionID)
	if restored {
		if err := s.store.SaveDocument(c.Request.Context(), app.ID, kind, *doc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) setTaskStatus(c *gin.Context) {
	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.TaskTodo && req.Status != models.TaskDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be todo or done"})
		return
	}

	var completedAt *time.Time
	if req.Status == models.TaskDone {
		now := time.Now()
		completedAt = &now
	}
	if err := s.store.SetTaskStatus(c.Request.Context(), c.Param("id"), req.Status, completedAt); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status, "completed_at": completedAt})
}

func (s *Server) createEvidence(c *gin.Context) {
	var req struct {
		UserID        string   `json:"user_id" binding:"required"`
		Kind          string   `json:"kind" binding:"required"`
		Title         string   `json:"title" binding:"required"`
		URL           string   `json:"url"`
		Skills        []string `json:"skills"`
		Tools         []string `json:"tools"`
		Tags          []string `json:"tags"`
		ApplicationID *string  `json:"application_id"`
		FileName      string   `json:"file_name"`
		FileBase64    string   `json:"file_base64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := models.EvidenceKind(req.Kind)
	if kind != models.EvidenceLink && kind != models.EvidenceFile {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be link or file"})
		return
	}

	url := req.URL
	if kind == models.EvidenceFile && req.FileBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file_base64 is not valid base64"})
			return
		}
		url, err = s.uploader.Upload(c.Request.Context(), req.FileName, data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	ev := &models.Evidence{
		UserID:        req.UserID,
		Kind:          kind,
		Title:         req.Title,
		URL:           url,
		Skills:        req.Skills,
		Tools:         req.Tools,
		Tags:          req.Tags,
		ApplicationID: req.ApplicationID,
	}
	if err := s.store.CreateEvidence(c.Request.Context(), ev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (s *Server) listEvidence(c *gin.Context) {
	userID := c.Query("user")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user query parameter is required"})
		return
	}
	out, err := s.store.ListEvidence(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func docFor(app *models.Application, kind models.DocKind) *models.Document {
	if kind == models.DocCV {
		return &app.CVDoc
	}
	return &app.CoverLetterDoc
}

func moduleErrorsByName(res *pipeline.RunResult) map[string]string {
	out := map[string]string{}
	for key, msg := range res.ModuleErrors {
		out[key.String()] = msg
	}
	return out
}
