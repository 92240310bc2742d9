package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Search  string
	ClassID snowflake.ID
	Status  string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, student *Student) error
	FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*Student, error)
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Student, int64, error)
	Update(ctx context.Context, db *gorm.DB, student *Student) error
	Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error
}
