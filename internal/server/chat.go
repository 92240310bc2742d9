package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	chatdomain "github.com/yaseeradam/school-ms-sub002/internal/chat/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) StartConversation(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req chatdomain.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.UserID = claims.UserID
	req.PeerID = strings.TrimSpace(req.PeerID)

	resp, err := s.chatSvc.StartConversation(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConversations(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.chatSvc.ListConversations(c.Request.Context(), chatdomain.ListConversationsRequest{
		UserID: claims.UserID,
		Page:   query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMessages(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.chatSvc.ListMessages(c.Request.Context(), chatdomain.ListMessagesRequest{
		ConversationID: strings.TrimSpace(c.Param("id")),
		UserID:         claims.UserID,
		Page:           query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SendMessage(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req chatdomain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ConversationID = strings.TrimSpace(c.Param("id"))
	req.UserID = claims.UserID

	resp, err := s.chatSvc.SendMessage(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isChatValidationError(err error) bool {
	return errors.Is(err, chatdomain.ErrInvalidParticipant) ||
		errors.Is(err, chatdomain.ErrInvalidBody) ||
		errors.Is(err, chatdomain.ErrInvalidID)
}
