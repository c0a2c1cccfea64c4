package matchmaker

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /matching  body: {userId, difficulty, topic?}
func (h *Handler) FindMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Difficulty == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing matching criteria."})
		return
	}
	resp, err := h.svc.FindMatch(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No such question exists. Please choose other types of question."})
		case errors.Is(err, ErrQuestionFetch):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question for match; please try again."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Match found, but setup failed; please try again."})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /matching/status?userId=
func (h *Handler) Status(c *gin.Context) {
	uid := c.Query("userId")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId."})
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /matching/cancel  body: {userId}
func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId."})
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), req.UserID); err != nil {
		if errors.Is(err, ErrNotQueued) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User is not in the matching queue."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true, "message": "User has been removed from the matching queue."})
}
