package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, class *Class) error
	FindByID(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) (*Class, error)
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, search string, page pagination.Pagination) ([]*Class, int64, error)
	Update(ctx context.Context, db *gorm.DB, class *Class) error
	Delete(ctx context.Context, db *gorm.DB, schoolID, id snowflake.ID) error
}
