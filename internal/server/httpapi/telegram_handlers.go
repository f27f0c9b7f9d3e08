package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"telefeed/internal/common"
)

type manualMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleListMessages(c *gin.Context) {
	msgs, err := s.messages.ListChannelMessages(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "listing messages failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// handleFetch triggers one ingestion cycle. Ingestion errors are swallowed
// inside the service and reported via /status, so the trigger itself
// always answers 200 once it has run.
func (s *Server) handleFetch(c *gin.Context) {
	s.messages.FetchAndSave(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "messages updated"})
}

func (s *Server) handleCreateManual(c *gin.Context) {
	var req manualMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data"})
		return
	}

	msg, err := s.messages.CreateManual(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, common.ErrBlankText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be blank"})
			return
		}
		s.logger.Error(c.Request.Context(), "creating manual message failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create message"})
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.messages.Stats())
}
