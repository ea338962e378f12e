package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"induchat/internal/models"
	"induchat/internal/service/report"
	"induchat/internal/session"
	"induchat/internal/store"
)

const serviceName = "Industrial Automation AI Assistant"

// Handler wires HTTP routes to the session manager and conversation store.
type Handler struct {
	sessions *session.Manager
	store    store.Store
}

// NewHandler constructs a Handler instance.
func NewHandler(sessions *session.Manager, st store.Store) *Handler {
	return &Handler{sessions: sessions, store: st}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.root)
	router.POST("/chat", h.chatStub)
	router.GET("/industrial-topics", h.industrialTopics)

	api := router.Group("/api")
	api.POST("/conversations", h.createConversation)
	api.GET("/conversations/:id", h.getConversation)
	api.DELETE("/conversations/:id", h.deleteConversation)
	api.POST("/conversations/:id/messages", h.postMessage)
	api.POST("/conversations/:id/reset", h.resetConversation)
	api.PUT("/conversations/:id/backend", h.setBackend)
	api.POST("/conversations/:id/save", h.saveConversation)
	api.GET("/saved", h.listSaved)
	api.GET("/saved/:ref", h.loadSaved)
	api.POST("/report", h.generateReport)
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
	})
}

// chatStub is the documented placeholder endpoint. It is deliberately not
// wired to the dispatcher: it returns the fixed shape regardless of input.
func (h *Handler) chatStub(c *gin.Context) {
	var req struct {
		Messages    []models.Turn `json:"messages"`
		Temperature float64       `json:"temperature"`
		Model       string        `json:"model"`
	}
	_ = c.ShouldBindJSON(&req)
	c.JSON(http.StatusOK, gin.H{
		"response": "This is a placeholder response from the Industrial Automation AI Assistant API",
		"sources":  []string{"Documentation 1", "Technical Specification 2"},
	})
}

func (h *Handler) industrialTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": models.IndustrialTopics()})
}

type backendRequest struct {
	Kind          string  `json:"kind"`
	Credential    string  `json:"credential"`
	BaseURL       string  `json:"base_url"`
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"max_tokens"`
	MaxNewTokens  int     `json:"max_new_tokens"`
	TopP          float64 `json:"top_p"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

func (r backendRequest) toConfig() models.BackendConfig {
	return models.BackendConfig{
		Kind:          models.BackendKind(r.Kind),
		Credential:    r.Credential,
		BaseURL:       r.BaseURL,
		Model:         r.Model,
		Temperature:   r.Temperature,
		MaxTokens:     r.MaxTokens,
		MaxNewTokens:  r.MaxNewTokens,
		TopP:          r.TopP,
		RepeatPenalty: r.RepeatPenalty,
	}
}

func validateBackendRequest(req backendRequest) (models.BackendConfig, error) {
	cfg := req.toConfig()
	if err := cfg.Validate(); err != nil {
		return models.BackendConfig{}, err
	}
	if cfg.Kind == models.BackendHosted && strings.TrimSpace(cfg.Credential) != "" &&
		!models.CredentialLooksValid(cfg.Credential) {
		return models.BackendConfig{}, errors.New("api key format is invalid, expected an sk- prefixed secret")
	}
	return cfg, nil
}

func (h *Handler) createConversation(c *gin.Context) {
	var req struct {
		Backend backendRequest `json:"backend"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	cfg, err := validateBackendRequest(req.Backend)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, turns, err := h.sessions.Create(cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"conversation_id": id,
		"turns":           turns,
	})
}

func (h *Handler) getConversation(c *gin.Context) {
	turns, firstTurn, err := h.sessions.Transcript(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"turns":      turns,
		"first_turn": firstTurn,
	})
}

func (h *Handler) deleteConversation(c *gin.Context) {
	h.sessions.Purge(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) postMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.sessions.Submit(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		// Empty input: nothing was appended.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !result.Accepted {
		c.JSON(http.StatusOK, gin.H{"accepted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accepted":  true,
		"user_turn": result.UserTurn,
		"bot_turn":  result.BotTurn,
	})
}

func (h *Handler) resetConversation(c *gin.Context) {
	turns, err := h.sessions.Reset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

func (h *Handler) setBackend(c *gin.Context) {
	var req backendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cfg, err := validateBackendRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sessions.Configure(c.Param("id"), cfg); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) saveConversation(c *gin.Context) {
	id := c.Param("id")
	turns, _, err := h.sessions.Transcript(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	ref, err := h.store.Save(c.Request.Context(), store.NewRecord(id, turns))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ref": ref})
}

func (h *Handler) listSaved(c *gin.Context) {
	refs, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if refs == nil {
		refs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"refs": refs})
}

func (h *Handler) loadSaved(c *gin.Context) {
	rec, err := h.store.Load(c.Request.Context(), c.Param("ref"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) generateReport(c *gin.Context) {
	var req struct {
		Period       string         `json:"period"`
		DurationDays string         `json:"duration_days"`
		Description  string         `json:"description"`
		Backend      backendRequest `json:"backend"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cfg, err := validateBackendRequest(req.Backend)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := report.Generate(c.Request.Context(), models.ReportRequest{
		Period:       req.Period,
		DurationDays: req.DurationDays,
		Description:  req.Description,
	}, cfg)
	if err != nil {
		if errors.Is(err, models.ErrIncompleteReport) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": doc})
}
