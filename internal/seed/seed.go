package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	demoSchoolName  = "Demo Academy"
	demoSchoolEmail = "admin@demo.academy"
	trialDays       = 14
)

type planSeed struct {
	Code           string
	Name           string
	Description    string
	Price          int64
	DurationMonths int
	MaxStudents    int
	MaxTeachers    int
	Features       string
}

var defaultPlans = []planSeed{
	{
		Code:           "basic",
		Name:           "Basic",
		Description:    "Core records for small schools",
		Price:          2500_00,
		DurationMonths: 1,
		MaxStudents:    200,
		MaxTeachers:    20,
		Features:       `["students","teachers","guardians","classes"]`,
	},
	{
		Code:           "standard",
		Name:           "Standard",
		Description:    "Adds messaging and reporting",
		Price:          6500_00,
		DurationMonths: 3,
		MaxStudents:    1000,
		MaxTeachers:    100,
		Features:       `["students","teachers","guardians","classes","chat","reports"]`,
	},
	{
		Code:           "premium",
		Name:           "Premium",
		Description:    "Everything, billed yearly",
		Price:          20000_00,
		DurationMonths: 12,
		MaxStudents:    0,
		MaxTeachers:    0,
		Features:       `["students","teachers","guardians","classes","chat","reports","priority_support"]`,
	},
}

// EnsureDefaultPlans seeds the subscription plan catalog for startup bootstrap.
func EnsureDefaultPlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range defaultPlans {
			var existing plandomain.Plan
			err := tx.WithContext(ctx).
				Where("code = ?", seed.Code).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			now := time.Now().UTC()
			plan := plandomain.Plan{
				ID:             node.Generate(),
				Code:           seed.Code,
				Name:           seed.Name,
				Description:    seed.Description,
				Price:          seed.Price,
				Currency:       "USD",
				DurationMonths: seed.DurationMonths,
				MaxStudents:    seed.MaxStudents,
				MaxTeachers:    seed.MaxTeachers,
				Features:       datatypes.JSON(seed.Features),
				Active:         true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoSchool seeds a trial school so a fresh install is usable.
func EnsureDemoSchool(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		demoSlug := slug.Make(demoSchoolName)

		var existing schooldomain.School
		err := tx.WithContext(ctx).
			Where("slug = ?", demoSlug).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		trialEnd := now.AddDate(0, 0, trialDays)
		school := schooldomain.School{
			ID:                  node.Generate(),
			Name:                demoSchoolName,
			Slug:                demoSlug,
			Email:               demoSchoolEmail,
			SubscriptionStatus:  schooldomain.SubscriptionTrial,
			SubscriptionStartAt: &now,
			SubscriptionEndAt:   &trialEnd,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		return tx.WithContext(ctx).Create(&school).Error
	})
}
