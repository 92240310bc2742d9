package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/subject/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSubject(ctx context.Context, db *gorm.DB, subject *domain.Subject) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subjects
		 (id, school_id, name, code, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		subject.ID,
		subject.SchoolID,
		subject.Name,
		subject.Code,
		subject.Active,
		subject.CreatedAt,
		subject.UpdatedAt,
	).Error
}

func (r *repo) FindSubjectByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*domain.Subject, error) {
	var subject domain.Subject
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM subjects WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&subject).Error
	if err != nil {
		return nil, err
	}
	if subject.ID == 0 {
		return nil, nil
	}
	return &subject, nil
}

func (r *repo) ListSubjects(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, activeOnly bool) ([]*domain.Subject, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Subject{}).
		Where("school_id = ?", schoolID)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}

	var subjects []*domain.Subject
	err := stmt.Order("name asc, id asc").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *repo) InsertAssignment(ctx context.Context, db *gorm.DB, assignment *domain.TeacherAssignment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO teacher_assignments
		 (id, school_id, teacher_id, subject_id, class_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		assignment.ID,
		assignment.SchoolID,
		assignment.TeacherID,
		assignment.SubjectID,
		assignment.ClassID,
		assignment.CreatedAt,
	).Error
}

func (r *repo) ListAssignments(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, teacherID snowflake.ID) ([]*domain.AssignmentDetail, error) {
	stmt := db.WithContext(ctx).
		Table("teacher_assignments AS ta").
		Select(`ta.*,
			s.name AS subject_name,
			c.name AS class_name,
			t.first_name AS teacher_first_name,
			t.last_name AS teacher_last_name`).
		Joins("JOIN subjects s ON s.id = ta.subject_id").
		Joins("JOIN classes c ON c.id = ta.class_id").
		Joins("JOIN teachers t ON t.id = ta.teacher_id").
		Where("ta.school_id = ?", schoolID)
	if teacherID != 0 {
		stmt = stmt.Where("ta.teacher_id = ?", teacherID)
	}

	var rows []*assignmentRow
	if err := stmt.Order("ta.created_at desc, ta.id desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]*domain.AssignmentDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.detail())
	}
	return details, nil
}

type assignmentRow struct {
	domain.TeacherAssignment
	SubjectName      string `gorm:"column:subject_name"`
	ClassName        string `gorm:"column:class_name"`
	TeacherFirstName string `gorm:"column:teacher_first_name"`
	TeacherLastName  string `gorm:"column:teacher_last_name"`
}

func (row *assignmentRow) detail() *domain.AssignmentDetail {
	return &domain.AssignmentDetail{
		TeacherAssignment: row.TeacherAssignment,
		SubjectName:       row.SubjectName,
		ClassName:         row.ClassName,
		TeacherName:       row.TeacherFirstName + " " + row.TeacherLastName,
	}
}

func (r *repo) TeacherName(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (string, error) {
	var row struct {
		FirstName string `gorm:"column:first_name"`
		LastName  string `gorm:"column:last_name"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT first_name, last_name FROM teachers WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&row).Error
	if err != nil {
		return "", err
	}
	if row.FirstName == "" && row.LastName == "" {
		return "", nil
	}
	return row.FirstName + " " + row.LastName, nil
}

func (r *repo) ClassName(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (string, error) {
	var name string
	err := db.WithContext(ctx).Raw(
		`SELECT name FROM classes WHERE school_id = ? AND id = ?`,
		schoolID,
		id,
	).Scan(&name).Error
	if err != nil {
		return "", err
	}
	return name, nil
}
