package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
)

func (s *Server) GetSchool(c *gin.Context) {
	resp, err := s.schoolSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSchool(c *gin.Context) {
	var req schooldomain.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.schoolSvc.UpdateSettings(c.Request.Context(), schooldomain.UpdateSchoolRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscriptionSummary(c *gin.Context) {
	resp, err := s.schoolSvc.SubscriptionSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSchoolValidationError(err error) bool {
	return errors.Is(err, schooldomain.ErrInvalidName)
}
