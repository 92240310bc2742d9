package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	classdomain "github.com/yaseeradam/school-ms-sub002/internal/schoolclass/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) CreateClass(c *gin.Context) {
	var req classdomain.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.classSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClasses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.classSvc.List(c.Request.Context(), classdomain.ListClassesRequest{
		Search: strings.TrimSpace(query.Search),
		Page:   query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClassByID(c *gin.Context) {
	resp, err := s.classSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateClass(c *gin.Context) {
	var req classdomain.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.classSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteClass(c *gin.Context) {
	if err := s.classSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isClassValidationError(err error) bool {
	return errors.Is(err, classdomain.ErrInvalidName) ||
		errors.Is(err, classdomain.ErrInvalidID)
}
