package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/civiclens-lk/civiclens/internal/mockdata"
	"github.com/civiclens-lk/civiclens/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errMissingStore  = errors.New("demo store dependency required")
	errMissingHasher = errors.New("session hasher dependency required")
)

// Dependencies wires the HTTP layer.
type Dependencies struct {
	Store          *DemoStore
	Hasher         *session.Hasher
	Logger         *zap.Logger
	Clock          func() time.Time
	AllowedOrigins []string
}

// NewHTTPHandler builds the demo API router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Store == nil {
		return nil, errMissingStore
	}
	if deps.Hasher == nil {
		return nil, errMissingHasher
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization", session.HeaderName},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		store:  deps.Store,
		hasher: deps.Hasher,
		logger: logger,
		clock:  clock,
	}

	api := router.Group("/api")
	api.GET("/health", handler.handleHealth)
	api.GET("/mock-data", handler.handleMockData)
	api.GET("/issues", handler.handleListIssues)
	api.POST("/issues", handler.handleCreateIssue)
	api.GET("/issues/:id", handler.handleGetIssue)
	api.POST("/issues/:id/upvote", handler.handleUpvote)
	api.POST("/issues/:id/resolve-vote", handler.handleResolveVote)
	api.GET("/issues/:id/comments", handler.handleListComments)
	api.POST("/issues/:id/comments", handler.handlePostComment)
	api.PATCH("/issues/:id/status", handler.handleUpdateStatus)
	api.GET("/stats", handler.handleStats)
	api.GET("/contacts", handler.handleContacts)
	api.GET("/hotlines", handler.handleHotlines)

	return router, nil
}

type httpHandler struct {
	store  *DemoStore
	hasher *session.Hasher
	logger *zap.Logger
	clock  func() time.Time
}

func (h *httpHandler) sessionHash(c *gin.Context) string {
	return h.hasher.Hash(c.GetHeader(session.HeaderName))
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"status":    "healthy",
		"timestamp": h.clock().UTC(),
		"demo_mode": true,
	})
}

func (h *httpHandler) handleMockData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mockIssues":         mockdata.Issues(),
		"mockResolvedIssues": mockdata.ResolvedIssues(),
		"mockComments":       mockdata.Comments(),
		"emergencyContacts":  mockdata.EmergencyContacts(),
		"nationalHotlines":   mockdata.NationalHotlines(),
	})
}

func parseListFilter(c *gin.Context) (civic.ListFilter, error) {
	var filter civic.ListFilter
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status, err := civic.ParseStatus(raw)
		if err != nil {
			return civic.ListFilter{}, err
		}
		filter.Status = status
	}
	if raw := c.Query("category"); raw != "" {
		category, err := civic.ParseCategory(raw)
		if err != nil {
			return civic.ListFilter{}, err
		}
		filter.Category = category
	}
	if raw := c.Query("sort"); raw != "" {
		filter.Sort = civic.Sort(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	return filter, nil
}

func (h *httpHandler) handleListIssues(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.store.ListIssues(filter))
}

func (h *httpHandler) handleGetIssue(c *gin.Context) {
	issue, err := h.store.GetIssue(c.Param("id"))
	if errors.Is(err, ErrIssueNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, issue)
}

func roundCoordinate(value float64) float64 {
	return math.Round(value*100) / 100
}

func (h *httpHandler) handleCreateIssue(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if title == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and description are required"})
		return
	}

	category := civic.NormalizeCategory(c.PostForm("category"))
	severity, err := civic.ParseSeverity(c.DefaultPostForm("severity", string(civic.SeverityMedium)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	location := strings.TrimSpace(c.DefaultPostForm("location", "Unknown location"))
	isAnonymous := strings.EqualFold(c.DefaultPostForm("isAnonymous", "true"), "true")

	var coordinates *civic.Coordinates
	if latRaw, lngRaw := c.PostForm("lat"), c.PostForm("lng"); latRaw != "" && lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr == nil && lngErr == nil {
			coordinates = &civic.Coordinates{Lat: roundCoordinate(lat), Lng: roundCoordinate(lng)}
		}
	}

	photos := []string{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["photos"] {
			photos = civic.AppendPhoto(photos, file.Filename)
		}
	}

	issue := h.store.CreateIssue(NewIssueInput{
		Title:       title,
		Description: description,
		Category:    category,
		Severity:    severity,
		Location:    location,
		IsAnonymous: isAnonymous,
		Coordinates: coordinates,
		Photos:      photos,
	})
	h.logger.Info("issue created",
		zap.String("issue_id", issue.ID),
		zap.String("category", string(issue.Category)))
	c.JSON(http.StatusCreated, issue)
}

func (h *httpHandler) handleUpvote(c *gin.Context) {
	issueID := c.Param("id")
	outcome, err := h.store.Upvote(issueID, h.sessionHash(c))
	if errors.Is(err, ErrIssueNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"issueId":   issueID,
		"upvotes":   outcome.Upvotes,
		"duplicate": outcome.Duplicate,
	})
}

type resolveVotePayload struct {
	Vote string `json:"vote"`
}

func (h *httpHandler) handleResolveVote(c *gin.Context) {
	var payload resolveVotePayload
	if err := c.ShouldBindJSON(&payload); err != nil || (payload.Vote != "yes" && payload.Vote != "no") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vote must be 'yes' or 'no'"})
		return
	}

	issueID := c.Param("id")
	outcome, err := h.store.ResolveVote(issueID, h.sessionHash(c), payload.Vote)
	if errors.Is(err, ErrIssueNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"issueId":   issueID,
		"yes":       outcome.Yes,
		"no":        outcome.No,
		"total":     outcome.Yes + outcome.No,
		"duplicate": outcome.Duplicate,
	})
}

func (h *httpHandler) handleListComments(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Comments(c.Param("id")))
}

type postCommentPayload struct {
	Text      string `json:"text"`
	Anonymous bool   `json:"anonymous"`
}

func (h *httpHandler) handlePostComment(c *gin.Context) {
	var payload postCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	comment, err := h.store.AddComment(c.Param("id"), strings.TrimSpace(payload.Text), payload.Anonymous)
	if errors.Is(err, ErrIssueNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

type updateStatusPayload struct {
	Status    string `json:"status"`
	Note      string `json:"note"`
	UpdatedBy string `json:"updatedBy"`
}

func (h *httpHandler) handleUpdateStatus(c *gin.Context) {
	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	status, err := civic.ParseStatus(payload.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.store.UpdateStatus(c.Param("id"), status, payload.Note, payload.UpdatedBy)
	switch {
	case errors.Is(err, ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	case errors.Is(err, civic.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("status update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status_update_failed"})
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *httpHandler) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

func (h *httpHandler) handleContacts(c *gin.Context) {
	c.JSON(http.StatusOK, mockdata.EmergencyContacts())
}

func (h *httpHandler) handleHotlines(c *gin.Context) {
	c.JSON(http.StatusOK, mockdata.NationalHotlines())
}
