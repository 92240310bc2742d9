package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/plan/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/plan/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestCreatePlanNormalizesInput(t *testing.T) {
	svc, _ := newService(t)

	plan, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		Code:           " Standard-Term ",
		Name:           "Standard Term",
		Price:          45000_00,
		Currency:       "ngn",
		DurationMonths: 3,
		MaxStudents:    500,
		Features:       []string{"attendance", "chat"},
	})
	require.NoError(t, err)

	assert.Equal(t, "standard-term", plan.Code)
	assert.Equal(t, "NGN", plan.Currency)
	assert.True(t, plan.Active)
	assert.JSONEq(t, `["attendance","chat"]`, string(plan.Features))

	got, err := svc.GetByID(context.Background(), domain.GetPlanRequest{ID: plan.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, int64(45000_00), got.Price)
}

func TestCreatePlanDefaults(t *testing.T) {
	svc, _ := newService(t)

	plan, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		Code:           "basic",
		Name:           "Basic",
		Price:          0,
		DurationMonths: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", plan.Currency)
	assert.JSONEq(t, `[]`, string(plan.Features))
}

func TestCreatePlanValidation(t *testing.T) {
	svc, _ := newService(t)

	cases := []struct {
		name string
		req  domain.CreatePlanRequest
		want error
	}{
		{"missing code", domain.CreatePlanRequest{Name: "Basic", DurationMonths: 1}, domain.ErrInvalidCode},
		{"missing name", domain.CreatePlanRequest{Code: "basic", DurationMonths: 1}, domain.ErrInvalidName},
		{"negative price", domain.CreatePlanRequest{Code: "basic", Name: "Basic", Price: -1, DurationMonths: 1}, domain.ErrInvalidPrice},
		{"zero duration", domain.CreatePlanRequest{Code: "basic", Name: "Basic"}, domain.ErrInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListActiveSkipsInactivePlans(t *testing.T) {
	svc, gdb := newService(t)

	_, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		Code: "basic", Name: "Basic", Price: 10000_00, DurationMonths: 1,
	})
	require.NoError(t, err)
	retired, err := svc.Create(context.Background(), domain.CreatePlanRequest{
		Code: "legacy", Name: "Legacy", Price: 5000_00, DurationMonths: 1,
	})
	require.NoError(t, err)

	// Retire the second plan directly; there is no deactivate endpoint.
	require.NoError(t, gdb.Exec(`UPDATE subscription_plans SET active = FALSE WHERE id = ?`, retired.ID).Error)

	resp, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, "basic", resp.Plans[0].Code)
}

func TestGetPlanByID(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetByID(context.Background(), domain.GetPlanRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(context.Background(), domain.GetPlanRequest{ID: "1834098338553856001"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_plan_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE subscription_plans (
		id BIGINT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		duration_months INTEGER NOT NULL,
		max_students INTEGER NOT NULL DEFAULT 0,
		max_teachers INTEGER NOT NULL DEFAULT 0,
		features TEXT NOT NULL DEFAULT '[]',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`).Error)
	return db
}
