package scheduler_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/scheduler"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	schoolrepo "github.com/yaseeradam/school-ms-sub002/internal/school/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_sched_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.Exec(`CREATE TABLE schools (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		subscription_status TEXT NOT NULL DEFAULT 'trial',
		subscription_plan_id BIGINT,
		subscription_start_at TIMESTAMPTZ,
		subscription_end_at TIMESTAMPTZ,
		last_payment_at TIMESTAMPTZ,
		account_frozen BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return db
}

func seedSchool(t *testing.T, db *gorm.DB, node *snowflake.Node, status schooldomain.SubscriptionStatus, endAt *time.Time) snowflake.ID {
	t.Helper()
	repo := schoolrepo.Provide()
	now := time.Now().UTC()
	school := &schooldomain.School{
		ID:                 node.Generate(),
		Name:               "School",
		Slug:               fmt.Sprintf("school-%d", node.Generate()),
		SubscriptionStatus: status,
		SubscriptionEndAt:  endAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := repo.Insert(context.Background(), db, school); err != nil {
		t.Fatalf("insert school: %v", err)
	}
	return school.ID
}

func TestExpireSubscriptionsJobLapsesPastGrace(t *testing.T) {
	db := setupTestDB(t)
	node, err := snowflake.NewNode(13)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	pastGrace := now.AddDate(0, 0, -10)
	withinGrace := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 1, 0)

	lapsedID := seedSchool(t, db, node, schooldomain.SubscriptionActive, &pastGrace)
	graceID := seedSchool(t, db, node, schooldomain.SubscriptionActive, &withinGrace)
	activeID := seedSchool(t, db, node, schooldomain.SubscriptionActive, &future)
	trialID := seedSchool(t, db, node, schooldomain.SubscriptionTrial, nil)

	sched, err := scheduler.New(scheduler.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      clk,
		SchoolRepo: schoolrepo.Provide(),
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	repo := schoolrepo.Provide()
	assertStatus := func(id snowflake.ID, want schooldomain.SubscriptionStatus, frozen bool) {
		t.Helper()
		school, err := repo.FindByID(context.Background(), db, id)
		if err != nil || school == nil {
			t.Fatalf("reload school %s: %v", id, err)
		}
		if school.SubscriptionStatus != want {
			t.Fatalf("school %s status = %s, want %s", id, school.SubscriptionStatus, want)
		}
		if school.AccountFrozen != frozen {
			t.Fatalf("school %s frozen = %v, want %v", id, school.AccountFrozen, frozen)
		}
	}

	assertStatus(lapsedID, schooldomain.SubscriptionExpired, true)
	assertStatus(graceID, schooldomain.SubscriptionActive, false)
	assertStatus(activeID, schooldomain.SubscriptionActive, false)
	assertStatus(trialID, schooldomain.SubscriptionTrial, false)
}

func TestExpireSubscriptionsJobIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	node, err := snowflake.NewNode(14)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	pastGrace := now.AddDate(0, 0, -30)
	id := seedSchool(t, db, node, schooldomain.SubscriptionActive, &pastGrace)

	sched, err := scheduler.New(scheduler.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      clk,
		SchoolRepo: schoolrepo.Provide(),
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := sched.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	school, err := schoolrepo.Provide().FindByID(context.Background(), db, id)
	if err != nil || school == nil {
		t.Fatalf("reload school: %v", err)
	}
	if school.SubscriptionStatus != schooldomain.SubscriptionExpired {
		t.Fatalf("status = %s, want expired", school.SubscriptionStatus)
	}
}
