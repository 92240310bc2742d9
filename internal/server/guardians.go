package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	guardiandomain "github.com/yaseeradam/school-ms-sub002/internal/guardian/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) CreateGuardian(c *gin.Context) {
	var req guardiandomain.CreateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.guardianSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListGuardians(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.guardianSvc.List(c.Request.Context(), guardiandomain.ListGuardiansRequest{
		Search: strings.TrimSpace(query.Search),
		Page:   query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGuardianByID(c *gin.Context) {
	resp, err := s.guardianSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateGuardian(c *gin.Context) {
	var req guardiandomain.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.guardianSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteGuardian(c *gin.Context) {
	if err := s.guardianSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isGuardianValidationError(err error) bool {
	return errors.Is(err, guardiandomain.ErrInvalidName) ||
		errors.Is(err, guardiandomain.ErrInvalidEmail) ||
		errors.Is(err, guardiandomain.ErrInvalidID)
}
