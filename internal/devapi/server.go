package devapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/mcpdash/mcpdash/internal/api"
)

const defaultLogLimit = 100

type handler struct {
	backend *Backend
	logger  zerolog.Logger
}

// NewHandler returns the HTTP handler for the development API. Routes live
// under /api and every response allows cross-origin requests.
func NewHandler(backend *Backend, logger zerolog.Logger) http.Handler {
	h := &handler{backend: backend, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(h.requestLogger)
	h.registerRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader},
	})
	return c.Handler(router)
}

func (h *handler) registerRoutes(router gin.IRouter) {
	r := router.Group("/api")
	r.GET("/status", h.handleStatus)
	r.GET("/tasks", h.handleGetTasks)
	r.POST("/tasks", h.handleCreateTask)
	r.POST("/tasks/:id/complete", h.handleCompleteTask)
	r.DELETE("/tasks/:id", h.handleDeleteTask)
	r.GET("/search/tasks", h.handleSearchTasks)
	r.GET("/notes", h.handleGetNotes)
	r.POST("/notes", h.handleCreateNote)
	r.GET("/events", h.handleGetEvents)
	r.GET("/connections", h.handleGetConnections)
	r.GET("/logs", h.handleGetLogs)
	r.GET("/metrics", h.handleMetrics)
}

func (h *handler) requestLogger(c *gin.Context) {
	requestID := c.GetHeader(api.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(api.RequestIDHeader, requestID)

	start := time.Now()
	c.Next()

	h.logger.Debug().
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("elapsed", time.Since(start)).
		Msg("handled request")
}

type apiError struct {
	Code    int
	Message string
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func errorFor(err error) apiError {
	switch {
	case errors.Is(err, ErrNotFound):
		return apiError{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, ErrInvalid):
		return apiError{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return apiError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, apiError{Code: http.StatusBadRequest, Message: "invalid task id"})
		return 0, false
	}
	return id, true
}

func (h *handler) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.Status())
}

func (h *handler) handleGetTasks(c *gin.Context) {
	c.JSON(http.StatusOK, api.TaskListResponse{Tasks: h.backend.Tasks()})
}

func (h *handler) handleSearchTasks(c *gin.Context) {
	q := c.Query("q")
	tasks := h.backend.SearchTasks(q)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "query": q, "count": len(tasks)})
}

func (h *handler) handleCreateTask(c *gin.Context) {
	var req api.NewTask
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, apiError{Code: http.StatusBadRequest, Message: "invalid request body"})
		return
	}
	task, err := h.backend.CreateTask(req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create task")
		abort(c, errorFor(err))
		return
	}
	h.logger.Info().Int64("id", task.ID).Msg("created task")
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (h *handler) handleCompleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.backend.CompleteTask(id); err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to complete task")
		abort(c, errorFor(err))
		return
	}
	h.logger.Info().Int64("id", id).Msg("completed task")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.backend.DeleteTask(id); err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to delete task")
		abort(c, errorFor(err))
		return
	}
	h.logger.Info().Int64("id", id).Msg("deleted task")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) handleGetNotes(c *gin.Context) {
	c.JSON(http.StatusOK, api.NoteListResponse{Notes: h.backend.Notes()})
}

func (h *handler) handleCreateNote(c *gin.Context) {
	var req api.NewNote
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, apiError{Code: http.StatusBadRequest, Message: "invalid request body"})
		return
	}
	note, err := h.backend.CreateNote(req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create note")
		abort(c, errorFor(err))
		return
	}
	h.logger.Info().Int64("id", note.ID).Msg("created note")
	c.JSON(http.StatusOK, gin.H{"success": true, "note": note})
}

func (h *handler) handleGetEvents(c *gin.Context) {
	c.JSON(http.StatusOK, api.EventListResponse{Events: h.backend.Events()})
}

func (h *handler) handleGetConnections(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.Connections())
}

func (h *handler) handleGetLogs(c *gin.Context) {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abort(c, apiError{Code: http.StatusBadRequest, Message: "invalid limit"})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, api.LogListResponse{Logs: h.backend.Logs(limit, c.Query("level"))})
}

func (h *handler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.backend.Metrics())
}
