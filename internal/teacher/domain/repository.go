package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Search  string
	Subject string
	Status  string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, teacher *Teacher) error
	FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*Teacher, error)
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Teacher, int64, error)
	Update(ctx context.Context, db *gorm.DB, teacher *Teacher) error
	Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error
}
