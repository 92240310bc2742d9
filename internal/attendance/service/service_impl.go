package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("attendance.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Mark(ctx context.Context, req domain.MarkRequest) (domain.Record, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.Record{}, domain.ErrInvalidSchool
	}

	record, err := s.buildRecord(schoolID, req)
	if err != nil {
		return domain.Record{}, err
	}

	if err := s.repo.Upsert(ctx, s.db, &record); err != nil {
		return domain.Record{}, err
	}

	// Re-marking keeps the original row id, so read back the stored row.
	stored, err := s.repo.Find(ctx, s.db, schoolID, record.StudentID, record.Date)
	if err != nil {
		return domain.Record{}, err
	}
	if stored != nil {
		return *stored, nil
	}
	return record, nil
}

func (s *Service) BulkMark(ctx context.Context, req domain.BulkMarkRequest) (domain.BulkMarkResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.BulkMarkResponse{}, domain.ErrInvalidSchool
	}
	if len(req.Records) == 0 {
		return domain.BulkMarkResponse{}, domain.ErrEmptyBatch
	}

	// Validate the whole batch before writing anything.
	records := make([]domain.Record, 0, len(req.Records))
	for _, entry := range req.Records {
		entry.MarkedBy = req.MarkedBy
		record, err := s.buildRecord(schoolID, entry)
		if err != nil {
			return domain.BulkMarkResponse{}, err
		}
		records = append(records, record)
	}

	count := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			inserted, err := s.repo.InsertIgnore(ctx, tx, &records[i])
			if err != nil {
				return err
			}
			if inserted {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return domain.BulkMarkResponse{}, err
	}

	return domain.BulkMarkResponse{Success: true, Count: count}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.ListResponse{}, domain.ErrInvalidSchool
	}

	var filter domain.ListFilter
	if raw := strings.TrimSpace(req.StudentID); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.StudentID = parsed
	}
	if raw := strings.TrimSpace(req.ClassID); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.ClassID = parsed
	}
	if raw := strings.TrimSpace(req.Date); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.Date = date
	}

	page := req.Page.Normalize()
	items, total, err := s.repo.List(ctx, s.db, schoolID, filter, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}

	return domain.ListResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Records:  records,
	}, nil
}

func (s *Service) Summary(ctx context.Context, req domain.SummaryRequest) (domain.SummaryResponse, error) {
	schoolID, ok := schoolctx.SchoolIDFromContext(ctx)
	if !ok || schoolID == 0 {
		return domain.SummaryResponse{}, domain.ErrInvalidSchool
	}

	from := strings.TrimSpace(req.From)
	if from != "" {
		parsed, err := parseDate(from)
		if err != nil {
			return domain.SummaryResponse{}, err
		}
		from = parsed
	}
	to := strings.TrimSpace(req.To)
	if to != "" {
		parsed, err := parseDate(to)
		if err != nil {
			return domain.SummaryResponse{}, err
		}
		to = parsed
	}

	totals, err := s.repo.TotalsByClass(ctx, s.db, schoolID, from, to)
	if err != nil {
		return domain.SummaryResponse{}, err
	}

	classes := make([]domain.ClassSummary, 0, len(totals))
	var rateSum float64
	for _, total := range totals {
		summary := domain.ClassSummary{ClassTotals: total}
		if total.TotalRecords > 0 {
			rate := float64(total.TotalPresent+total.TotalLate) / float64(total.TotalRecords) * 100
			summary.AttendanceRate = math.Round(rate*100) / 100
		}
		rateSum += summary.AttendanceRate
		classes = append(classes, summary)
	}

	sort.Slice(classes, func(i, j int) bool {
		if classes[i].AttendanceRate != classes[j].AttendanceRate {
			return classes[i].AttendanceRate > classes[j].AttendanceRate
		}
		return classes[i].ClassName < classes[j].ClassName
	})

	resp := domain.SummaryResponse{
		Classes: classes,
		Summary: domain.SummaryTotals{TotalClasses: len(classes)},
	}
	if len(classes) > 0 {
		avg := rateSum / float64(len(classes))
		resp.Summary.AverageAttendanceRate = math.Round(avg*100) / 100
	}
	return resp, nil
}

func (s *Service) buildRecord(schoolID snowflake.ID, req domain.MarkRequest) (domain.Record, error) {
	studentID, err := parseID(req.StudentID)
	if err != nil {
		return domain.Record{}, err
	}
	classID, err := parseID(req.ClassID)
	if err != nil {
		return domain.Record{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return domain.Record{}, err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !domain.ValidStatus(status) {
		return domain.Record{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now().UTC()
	return domain.Record{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		StudentID: studentID,
		ClassID:   classID,
		Date:      date,
		Status:    status,
		MarkedBy:  strings.TrimSpace(req.MarkedBy),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}

// parseDate normalizes a calendar day to the canonical YYYY-MM-DD form.
func parseDate(raw string) (string, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", domain.ErrInvalidDate
	}
	return parsed.Format(dateLayout), nil
}
