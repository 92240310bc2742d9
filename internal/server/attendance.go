package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	attendancedomain "github.com/yaseeradam/school-ms-sub002/internal/attendance/domain"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

func (s *Server) MarkAttendance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req attendancedomain.MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.MarkedBy = claims.UserID

	resp, err := s.attendanceSvc.Mark(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkAttendanceBulk(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req attendancedomain.BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.MarkedBy = claims.UserID

	resp, err := s.attendanceSvc.BulkMark(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAttendance(c *gin.Context) {
	var query struct {
		pagination.Pagination
		StudentID string `form:"student_id"`
		ClassID   string `form:"class_id"`
		Date      string `form:"date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.attendanceSvc.List(c.Request.Context(), attendancedomain.ListRequest{
		StudentID: strings.TrimSpace(query.StudentID),
		ClassID:   strings.TrimSpace(query.ClassID),
		Date:      strings.TrimSpace(query.Date),
		Page:      query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAttendanceReport(c *gin.Context) {
	resp, err := s.attendanceSvc.Summary(c.Request.Context(), attendancedomain.SummaryRequest{
		From: strings.TrimSpace(c.Query("from")),
		To:   strings.TrimSpace(c.Query("to")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isAttendanceValidationError(err error) bool {
	return errors.Is(err, attendancedomain.ErrInvalidID) ||
		errors.Is(err, attendancedomain.ErrInvalidDate) ||
		errors.Is(err, attendancedomain.ErrInvalidStatus) ||
		errors.Is(err, attendancedomain.ErrEmptyBatch)
}
