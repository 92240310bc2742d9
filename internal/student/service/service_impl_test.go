package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolctx"
	"github.com/yaseeradam/school-ms-sub002/internal/student/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/student/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/student/service"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
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
	node, err := snowflake.NewNode(9)
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

func (f *fixture) create(t *testing.T, first, last, admissionNo string) domain.Student {
	t.Helper()
	student, err := f.svc.Create(f.ctx(), domain.CreateStudentRequest{
		FirstName:   first,
		LastName:    last,
		AdmissionNo: admissionNo,
	})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	return student
}

func TestCreateStudent(t *testing.T) {
	f := newFixture(t)

	student, err := f.svc.Create(f.ctx(), domain.CreateStudentRequest{
		FirstName:   "  Amina ",
		LastName:    "Bello",
		Email:       "amina@school.test",
		AdmissionNo: "ADM-001",
		DateOfBirth: "2014-06-22",
		Gender:      "F",
	})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	if student.ID == 0 {
		t.Fatal("expected generated id")
	}
	if student.SchoolID != f.schoolID {
		t.Fatalf("school id = %s, want %s", student.SchoolID, f.schoolID)
	}
	if student.FirstName != "Amina" {
		t.Fatalf("first name = %q, want trimmed", student.FirstName)
	}
	if student.Status != "active" {
		t.Fatalf("status = %q, want active", student.Status)
	}
	if student.DateOfBirth == nil || !student.DateOfBirth.Equal(time.Date(2014, time.June, 22, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date of birth = %v", student.DateOfBirth)
	}

	got, err := f.svc.GetByID(f.ctx(), student.ID.String())
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.AdmissionNo != "ADM-001" {
		t.Fatalf("admission no = %q", got.AdmissionNo)
	}
}

func TestCreateStudentValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		req  domain.CreateStudentRequest
		want error
	}{
		{"missing name", domain.CreateStudentRequest{AdmissionNo: "ADM-001"}, domain.ErrInvalidName},
		{"missing admission no", domain.CreateStudentRequest{FirstName: "Amina", LastName: "Bello"}, domain.ErrInvalidAdmissionNo},
		{"bad class id", domain.CreateStudentRequest{FirstName: "Amina", LastName: "Bello", AdmissionNo: "ADM-001", ClassID: "not-a-number"}, domain.ErrInvalidID},
		{"bad date of birth", domain.CreateStudentRequest{FirstName: "Amina", LastName: "Bello", AdmissionNo: "ADM-001", DateOfBirth: "22/06/2014"}, domain.ErrInvalidDateOfBirth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(f.ctx(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateStudentRequiresSchoolScope(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateStudentRequest{
		FirstName:   "Amina",
		LastName:    "Bello",
		AdmissionNo: "ADM-001",
	})
	if !errors.Is(err, domain.ErrInvalidSchool) {
		t.Fatalf("err = %v, want ErrInvalidSchool", err)
	}
}

func TestCreateStudentDuplicateAdmissionNo(t *testing.T) {
	f := newFixture(t)

	f.create(t, "Amina", "Bello", "ADM-001")
	_, err := f.svc.Create(f.ctx(), domain.CreateStudentRequest{
		FirstName:   "Tunde",
		LastName:    "Okafor",
		AdmissionNo: "ADM-001",
	})
	if !errors.Is(err, domain.ErrDuplicateAdmission) {
		t.Fatalf("err = %v, want ErrDuplicateAdmission", err)
	}
}

func TestListStudentsFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)

	f.create(t, "Amina", "Bello", "ADM-001")
	f.create(t, "Tunde", "Okafor", "ADM-002")
	f.create(t, "Chidi", "Okafor", "ADM-003")

	resp, err := f.svc.List(f.ctx(), domain.ListStudentsRequest{Search: "Okafor"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Students) != 2 {
		t.Fatalf("len(students) = %d, want 2", len(resp.Students))
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Students[0].FirstName != "Chidi" {
		t.Fatalf("first result = %q, want Chidi (last name then first name order)", resp.Students[0].FirstName)
	}

	paged, err := f.svc.List(f.ctx(), domain.ListStudentsRequest{
		Page: pagination.Pagination{Page: 2, Limit: 2},
	})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(paged.Students) != 1 {
		t.Fatalf("len(page 2) = %d, want 1", len(paged.Students))
	}
	if paged.Total != 3 {
		t.Fatalf("total = %d, want 3", paged.Total)
	}
}

func TestListStudentsScopedToSchool(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Amina", "Bello", "ADM-001")

	otherSchool := schoolctx.WithSchoolID(context.Background(), int64(f.node.Generate()))
	resp, err := f.svc.List(otherSchool, domain.ListStudentsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Students) != 0 {
		t.Fatalf("len(students) = %d, want 0 for foreign school", len(resp.Students))
	}
}

func TestUpdateStudent(t *testing.T) {
	f := newFixture(t)
	student := f.create(t, "Amina", "Bello", "ADM-001")

	f.clock.Advance(time.Hour)
	updated, err := f.svc.Update(f.ctx(), domain.UpdateStudentRequest{
		ID:          student.ID.String(),
		FirstName:   "Amina",
		LastName:    "Bello-Adams",
		AdmissionNo: "ADM-001",
		Status:      "suspended",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.LastName != "Bello-Adams" {
		t.Fatalf("last name = %q", updated.LastName)
	}
	if updated.Status != "suspended" {
		t.Fatalf("status = %q, want suspended", updated.Status)
	}
	if !updated.UpdatedAt.After(student.UpdatedAt) {
		t.Fatalf("updated_at = %v, want after %v", updated.UpdatedAt, student.UpdatedAt)
	}

	got, err := f.svc.GetByID(f.ctx(), student.ID.String())
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.LastName != "Bello-Adams" {
		t.Fatalf("persisted last name = %q", got.LastName)
	}
}

func TestUpdateStudentNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(f.ctx(), domain.UpdateStudentRequest{
		ID:          f.node.Generate().String(),
		FirstName:   "Amina",
		LastName:    "Bello",
		AdmissionNo: "ADM-001",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteStudent(t *testing.T) {
	f := newFixture(t)
	student := f.create(t, "Amina", "Bello", "ADM-001")

	if err := f.svc.Delete(f.ctx(), student.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetByID(f.ctx(), student.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestDeleteStudentForeignSchool(t *testing.T) {
	f := newFixture(t)
	student := f.create(t, "Amina", "Bello", "ADM-001")

	otherSchool := schoolctx.WithSchoolID(context.Background(), int64(f.node.Generate()))
	if err := f.svc.Delete(otherSchool, student.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.GetByID(f.ctx(), student.ID.String()); err != nil {
		t.Fatalf("student should survive foreign delete: %v", err)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_student_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE students (
			id BIGINT PRIMARY KEY,
			school_id BIGINT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			admission_no TEXT NOT NULL,
			class_id BIGINT,
			guardian_id BIGINT,
			date_of_birth TIMESTAMPTZ,
			gender TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_students_school_admission ON students (school_id, admission_no)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
