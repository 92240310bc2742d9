package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/service"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	node     *snowflake.Node
	svc      domain.Service
	schoolID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(11)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})

	return &fixture{
		db:       db,
		clock:    clk,
		node:     node,
		svc:      svc,
		schoolID: node.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	return schoolctx.WithSchoolID(context.Background(), int64(f.schoolID))
}

func (f *fixture) seedClass(t *testing.T, name string) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	err := f.db.Exec(
		`INSERT INTO classes (id, school_id, name) VALUES (?, ?, ?)`,
		id, f.schoolID, name,
	).Error
	if err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return id
}

func (f *fixture) mark(t *testing.T, studentID, classID snowflake.ID, date, status string) domain.Record {
	t.Helper()
	record, err := f.svc.Mark(f.ctx(), domain.MarkRequest{
		StudentID: studentID.String(),
		ClassID:   classID.String(),
		Date:      date,
		Status:    status,
		MarkedBy:  "teacher-1",
	})
	if err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
	return record
}

func TestMarkAttendance(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")
	studentID := f.node.Generate()

	record, err := f.svc.Mark(f.ctx(), domain.MarkRequest{
		StudentID: studentID.String(),
		ClassID:   classID.String(),
		Date:      "2026-03-10",
		Status:    " Present ",
		MarkedBy:  "teacher-1",
	})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if record.Status != domain.StatusPresent {
		t.Fatalf("status = %q, want present", record.Status)
	}
	if record.Date != "2026-03-10" {
		t.Fatalf("date = %q", record.Date)
	}
	if record.MarkedBy != "teacher-1" {
		t.Fatalf("marked_by = %q", record.MarkedBy)
	}
	if record.SchoolID != f.schoolID {
		t.Fatalf("school_id = %v, want %v", record.SchoolID, f.schoolID)
	}
}

func TestMarkAttendanceRemarkReplacesStatus(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")
	studentID := f.node.Generate()

	first := f.mark(t, studentID, classID, "2026-03-10", "absent")

	updated, err := f.svc.Mark(f.ctx(), domain.MarkRequest{
		StudentID: studentID.String(),
		ClassID:   classID.String(),
		Date:      "2026-03-10",
		Status:    "late",
		MarkedBy:  "teacher-2",
	})
	if err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	if updated.ID != first.ID {
		t.Fatalf("re-mark created a new row: %v != %v", updated.ID, first.ID)
	}
	if updated.Status != domain.StatusLate {
		t.Fatalf("status = %q, want late", updated.Status)
	}
	if updated.MarkedBy != "teacher-2" {
		t.Fatalf("marked_by = %q, want teacher-2", updated.MarkedBy)
	}

	var count int64
	if err := f.db.Raw(`SELECT COUNT(*) FROM attendance_records`).Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
}

func TestMarkAttendanceValidation(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")
	studentID := f.node.Generate()

	cases := []struct {
		name string
		req  domain.MarkRequest
		want error
	}{
		{
			name: "bad student id",
			req:  domain.MarkRequest{StudentID: "abc", ClassID: classID.String(), Date: "2026-03-10", Status: "present"},
			want: domain.ErrInvalidID,
		},
		{
			name: "bad date",
			req:  domain.MarkRequest{StudentID: studentID.String(), ClassID: classID.String(), Date: "10/03/2026", Status: "present"},
			want: domain.ErrInvalidDate,
		},
		{
			name: "bad status",
			req:  domain.MarkRequest{StudentID: studentID.String(), ClassID: classID.String(), Date: "2026-03-10", Status: "sick"},
			want: domain.ErrInvalidStatus,
		},
	}
	for _, tc := range cases {
		if _, err := f.svc.Mark(f.ctx(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestBulkMarkSkipsAlreadyMarked(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")
	marked := f.node.Generate()
	fresh1 := f.node.Generate()
	fresh2 := f.node.Generate()

	f.mark(t, marked, classID, "2026-03-10", "present")

	resp, err := f.svc.BulkMark(f.ctx(), domain.BulkMarkRequest{
		MarkedBy: "teacher-1",
		Records: []domain.MarkRequest{
			{StudentID: marked.String(), ClassID: classID.String(), Date: "2026-03-10", Status: "absent"},
			{StudentID: fresh1.String(), ClassID: classID.String(), Date: "2026-03-10", Status: "present"},
			{StudentID: fresh2.String(), ClassID: classID.String(), Date: "2026-03-10", Status: "late"},
		},
	})
	if err != nil {
		t.Fatalf("bulk mark: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}

	// The pre-existing row keeps its original status.
	var status string
	err = f.db.Raw(
		`SELECT status FROM attendance_records WHERE student_id = ? AND attendance_date = ?`,
		marked, "2026-03-10",
	).Scan(&status).Error
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status != domain.StatusPresent {
		t.Fatalf("status = %q, want present", status)
	}
}

func TestBulkMarkEmptyBatch(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.BulkMark(f.ctx(), domain.BulkMarkRequest{}); !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("err = %v, want %v", err, domain.ErrEmptyBatch)
	}
}

func TestBulkMarkRejectsInvalidEntryBeforeWriting(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")
	fresh := f.node.Generate()

	_, err := f.svc.BulkMark(f.ctx(), domain.BulkMarkRequest{
		Records: []domain.MarkRequest{
			{StudentID: fresh.String(), ClassID: classID.String(), Date: "2026-03-10", Status: "present"},
			{StudentID: fresh.String(), ClassID: classID.String(), Date: "2026-03-10", Status: "sick"},
		},
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("err = %v, want %v", err, domain.ErrInvalidStatus)
	}

	var count int64
	if err := f.db.Raw(`SELECT COUNT(*) FROM attendance_records`).Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rows = %d, want 0", count)
	}
}

func TestListAttendanceFilters(t *testing.T) {
	f := newFixture(t)
	classA := f.seedClass(t, "JSS 1A")
	classB := f.seedClass(t, "JSS 1B")
	student1 := f.node.Generate()
	student2 := f.node.Generate()

	f.mark(t, student1, classA, "2026-03-09", "present")
	f.mark(t, student1, classA, "2026-03-10", "absent")
	f.mark(t, student2, classB, "2026-03-10", "present")

	byStudent, err := f.svc.List(f.ctx(), domain.ListRequest{StudentID: student1.String()})
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if byStudent.Total != 2 {
		t.Fatalf("by student total = %d, want 2", byStudent.Total)
	}

	byClass, err := f.svc.List(f.ctx(), domain.ListRequest{ClassID: classB.String()})
	if err != nil {
		t.Fatalf("list by class: %v", err)
	}
	if byClass.Total != 1 {
		t.Fatalf("by class total = %d, want 1", byClass.Total)
	}

	byDate, err := f.svc.List(f.ctx(), domain.ListRequest{Date: "2026-03-10"})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if byDate.Total != 2 {
		t.Fatalf("by date total = %d, want 2", byDate.Total)
	}
}

func TestListAttendanceScopedToSchool(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")
	f.mark(t, f.node.Generate(), classID, "2026-03-10", "present")

	foreign := schoolctx.WithSchoolID(context.Background(), int64(f.node.Generate()))
	resp, err := f.svc.List(foreign, domain.ListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("total = %d, want 0", resp.Total)
	}
}

func TestAttendanceSummaryRates(t *testing.T) {
	f := newFixture(t)
	classA := f.seedClass(t, "JSS 1A")
	classB := f.seedClass(t, "JSS 1B")

	// Class A: 3 present, 1 absent => 75%.
	for i := 0; i < 3; i++ {
		f.mark(t, f.node.Generate(), classA, "2026-03-10", "present")
	}
	f.mark(t, f.node.Generate(), classA, "2026-03-10", "absent")

	// Class B: 1 present, 1 late, 2 absent => 50% (late counts attended).
	f.mark(t, f.node.Generate(), classB, "2026-03-10", "present")
	f.mark(t, f.node.Generate(), classB, "2026-03-10", "late")
	f.mark(t, f.node.Generate(), classB, "2026-03-10", "absent")
	f.mark(t, f.node.Generate(), classB, "2026-03-10", "absent")

	resp, err := f.svc.Summary(f.ctx(), domain.SummaryRequest{From: "2026-03-01", To: "2026-03-31"})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(resp.Classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(resp.Classes))
	}

	top := resp.Classes[0]
	if top.ClassName != "JSS 1A" || top.AttendanceRate != 75 {
		t.Fatalf("top class = %s rate %v, want JSS 1A at 75", top.ClassName, top.AttendanceRate)
	}
	if top.TotalPresent != 3 || top.TotalAbsent != 1 || top.TotalRecords != 4 {
		t.Fatalf("top totals = %+v", top.ClassTotals)
	}

	second := resp.Classes[1]
	if second.ClassName != "JSS 1B" || second.AttendanceRate != 50 {
		t.Fatalf("second class = %s rate %v, want JSS 1B at 50", second.ClassName, second.AttendanceRate)
	}
	if second.TotalLate != 1 || second.TotalExcused != 0 {
		t.Fatalf("second totals = %+v", second.ClassTotals)
	}

	if resp.Summary.TotalClasses != 2 {
		t.Fatalf("total classes = %d, want 2", resp.Summary.TotalClasses)
	}
	if resp.Summary.AverageAttendanceRate != 62.5 {
		t.Fatalf("average rate = %v, want 62.5", resp.Summary.AverageAttendanceRate)
	}
}

func TestAttendanceSummaryDateWindow(t *testing.T) {
	f := newFixture(t)
	classID := f.seedClass(t, "JSS 1A")

	f.mark(t, f.node.Generate(), classID, "2026-02-28", "absent")
	f.mark(t, f.node.Generate(), classID, "2026-03-10", "present")

	resp, err := f.svc.Summary(f.ctx(), domain.SummaryRequest{From: "2026-03-01"})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(resp.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(resp.Classes))
	}
	if resp.Classes[0].TotalRecords != 1 || resp.Classes[0].AttendanceRate != 100 {
		t.Fatalf("windowed totals = %+v rate %v", resp.Classes[0].ClassTotals, resp.Classes[0].AttendanceRate)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_attendance_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE classes (
			id BIGINT PRIMARY KEY,
			school_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT '',
			teacher_id BIGINT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE attendance_records (
			id BIGINT PRIMARY KEY,
			school_id BIGINT NOT NULL,
			student_id BIGINT NOT NULL,
			class_id BIGINT NOT NULL,
			attendance_date TEXT NOT NULL,
			status TEXT NOT NULL,
			marked_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX uq_attendance_student_day
		 ON attendance_records (school_id, student_id, attendance_date)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return db
}
