package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yaseeradam/school-ms-sub002/internal/auth"
	subjectdomain "github.com/yaseeradam/school-ms-sub002/internal/subject/domain"
)

func (s *Server) CreateSubject(c *gin.Context) {
	var req subjectdomain.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subjectSvc.CreateSubject(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSubjects(c *gin.Context) {
	resp, err := s.subjectSvc.ListSubjects(c.Request.Context(), subjectdomain.ListSubjectsRequest{
		ActiveOnly: strings.EqualFold(strings.TrimSpace(c.Query("active")), "true"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AssignTeacher(c *gin.Context) {
	var req subjectdomain.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subjectSvc.AssignTeacher(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListTeacherAssignments lists assignments for the teacher in the query,
// defaulting to the caller when the caller is a teacher.
func (s *Server) ListTeacherAssignments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	teacherID := strings.TrimSpace(c.Query("teacher_id"))
	if teacherID == "" && claims.Role == auth.RoleTeacher {
		teacherID = claims.UserID
	}

	resp, err := s.subjectSvc.ListAssignments(c.Request.Context(), subjectdomain.ListAssignmentsRequest{
		TeacherID: teacherID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSubjectValidationError(err error) bool {
	return errors.Is(err, subjectdomain.ErrInvalidName) ||
		errors.Is(err, subjectdomain.ErrInvalidID)
}
