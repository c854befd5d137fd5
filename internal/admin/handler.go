package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"meetup/internal/domain"
	"meetup/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the organizer API
type Handler struct {
	events    *service.EventService
	talks     *service.TalkService
	questions *service.QuestionService
	profiles  *service.ProfileService
	logger    *zap.Logger
}

// NewHandler creates a new organizer API handler
func NewHandler(
	events *service.EventService,
	talks *service.TalkService,
	questions *service.QuestionService,
	profiles *service.ProfileService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		events:    events,
		talks:     talks,
		questions: questions,
		profiles:  profiles,
		logger:    logger,
	}
}

// RegisterRoutes mounts the organizer routes on router
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.GET("", h.listEvents)
		events.POST("", h.createEvent)
		events.PUT("/:id", h.updateEvent)
	}

	talks := router.Group("/talks")
	{
		talks.POST("", h.createTalk)
		talks.PUT("/:id", h.updateTalk)
		talks.GET("/:id/questions", h.listQuestions)
	}

	router.PATCH("/profiles/:telegram_id", h.updateProfile)
}

func (h *Handler) listEvents(c *gin.Context) {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		since = parsed
	}

	events, err := h.events.List(c.Request.Context(), since)
	if err != nil {
		h.abort(c, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, newEventResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e := req.toDomain(0)
	if err := h.events.Create(c.Request.Context(), e); err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, newEventResponse(*e))
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e := req.toDomain(id)
	if err := h.events.Update(c.Request.Context(), e); err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, newEventResponse(*e))
}

func (h *Handler) createTalk(c *gin.Context) {
	var req talkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := req.toDomain(0)
	if err := h.talks.Create(c.Request.Context(), t); err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTalkResponse(*t))
}

func (h *Handler) updateTalk(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req talkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := req.toDomain(id)
	if err := h.talks.Update(c.Request.Context(), t); err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, newTalkResponse(*t))
}

func (h *Handler) listQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	questions, err := h.questions.ListForTalk(c.Request.Context(), id)
	if err != nil {
		h.abort(c, err)
		return
	}

	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, newQuestionResponse(q))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateProfile(c *gin.Context) {
	telegramID, ok := pathID(c, "telegram_id")
	if !ok {
		return
	}
	var flags service.ProfileFlags
	if err := c.ShouldBindJSON(&flags); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.profiles.SetFlags(c.Request.Context(), telegramID, flags)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(*p))
}

// abort maps service errors onto HTTP statuses
func (h *Handler) abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrTalkNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyText):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Organizer API request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
