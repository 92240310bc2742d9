package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	notificationdomain "github.com/yaseeradam/school-ms-sub002/internal/notification/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) ListNotifications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		pagination.Pagination
		Unread string `form:"unread"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.notificationSvc.List(c.Request.Context(), notificationdomain.ListNotificationsRequest{
		RecipientID: claims.UserID,
		UnreadOnly:  strings.EqualFold(strings.TrimSpace(query.Unread), "true"),
		Page:        query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkNotificationsRead(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req notificationdomain.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.RecipientID = claims.UserID

	resp, err := s.notificationSvc.MarkRead(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isNotificationValidationError(err error) bool {
	return errors.Is(err, notificationdomain.ErrInvalidRecipient) ||
		errors.Is(err, notificationdomain.ErrInvalidTitle) ||
		errors.Is(err, notificationdomain.ErrInvalidID)
}
