package domain

import (
	"context"
	"errors"

	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
)

type MarkRequest struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	MarkedBy  string `json:"-"`
}

type BulkMarkRequest struct {
	Records  []MarkRequest `json:"records"`
	MarkedBy string        `json:"-"`
}

// BulkMarkResponse reports how many records were newly written. Entries
// for students already marked that day are skipped, not overwritten.
type BulkMarkResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type ListRequest struct {
	StudentID string
	ClassID   string
	Date      string
	Page      pagination.Pagination
}

type ListResponse struct {
	pagination.PageInfo
	Records []Record `json:"records"`
}

type SummaryRequest struct {
	From string
	To   string
}

type ClassSummary struct {
	ClassTotals
	AttendanceRate float64 `json:"attendance_rate"`
}

type SummaryTotals struct {
	TotalClasses          int     `json:"total_classes"`
	AverageAttendanceRate float64 `json:"average_attendance_rate"`
}

type SummaryResponse struct {
	Classes []ClassSummary `json:"classes"`
	Summary SummaryTotals  `json:"summary"`
}

type Service interface {
	Mark(context.Context, MarkRequest) (Record, error)
	BulkMark(context.Context, BulkMarkRequest) (BulkMarkResponse, error)
	List(context.Context, ListRequest) (ListResponse, error)
	Summary(context.Context, SummaryRequest) (SummaryResponse, error)
}

var (
	ErrInvalidSchool = errors.New("invalid_school")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrEmptyBatch    = errors.New("empty_batch")
)
