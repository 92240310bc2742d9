package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	teacherdomain "github.com/yaseeradam/school-ms-sub002/internal/teacher/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) CreateTeacher(c *gin.Context) {
	var req teacherdomain.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.teacherSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTeachers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search  string `form:"search"`
		Subject string `form:"subject"`
		Status  string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.teacherSvc.List(c.Request.Context(), teacherdomain.ListTeachersRequest{
		Search:  strings.TrimSpace(query.Search),
		Subject: strings.TrimSpace(query.Subject),
		Status:  strings.TrimSpace(query.Status),
		Page:    query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTeacherByID(c *gin.Context) {
	resp, err := s.teacherSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTeacher(c *gin.Context) {
	var req teacherdomain.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.teacherSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTeacher(c *gin.Context) {
	if err := s.teacherSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isTeacherValidationError(err error) bool {
	return errors.Is(err, teacherdomain.ErrInvalidName) ||
		errors.Is(err, teacherdomain.ErrInvalidEmail) ||
		errors.Is(err, teacherdomain.ErrInvalidID)
}
