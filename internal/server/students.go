package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	studentdomain "github.com/yaseeradam/school-ms-sub002/internal/student/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) CreateStudent(c *gin.Context) {
	var req studentdomain.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStudents(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search  string `form:"search"`
		ClassID string `form:"class_id"`
		Status  string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.List(c.Request.Context(), studentdomain.ListStudentsRequest{
		Search:  strings.TrimSpace(query.Search),
		ClassID: strings.TrimSpace(query.ClassID),
		Status:  strings.TrimSpace(query.Status),
		Page:    query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListStudentsByClass lists the roster of one class. The class id is
// required, unlike the general listing where it is an optional filter.
func (s *Server) ListStudentsByClass(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClassID string `form:"class_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	classID := strings.TrimSpace(query.ClassID)
	if classID == "" {
		AbortWithError(c, newValidationError("class_id", "invalid_class_id", "class_id is required"))
		return
	}

	resp, err := s.studentSvc.List(c.Request.Context(), studentdomain.ListStudentsRequest{
		ClassID: classID,
		Page:    query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStudentByID(c *gin.Context) {
	resp, err := s.studentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateStudent(c *gin.Context) {
	var req studentdomain.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.studentSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteStudent(c *gin.Context) {
	if err := s.studentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isStudentValidationError(err error) bool {
	return errors.Is(err, studentdomain.ErrInvalidName) ||
		errors.Is(err, studentdomain.ErrInvalidAdmissionNo) ||
		errors.Is(err, studentdomain.ErrInvalidDateOfBirth) ||
		errors.Is(err, studentdomain.ErrInvalidID)
}
