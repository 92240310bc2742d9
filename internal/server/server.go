package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance"
	attendancedomain "github.com/yaseeradam/school-ms-sub002/internal/attendance/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/auth"
	"github.com/yaseeradam/school-ms-sub002/internal/chat"
	chatdomain "github.com/yaseeradam/school-ms-sub002/internal/chat/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	"github.com/yaseeradam/school-ms-sub002/internal/guardian"
	guardiandomain "github.com/yaseeradam/school-ms-sub002/internal/guardian/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/notification"
	notificationdomain "github.com/yaseeradam/school-ms-sub002/internal/notification/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/observability"
	obsmiddleware "github.com/yaseeradam/school-ms-sub002/internal/observability/logger"
	obsmetrics "github.com/yaseeradam/school-ms-sub002/internal/observability/metrics"
	obstracing "github.com/yaseeradam/school-ms-sub002/internal/observability/tracing"
	"github.com/yaseeradam/school-ms-sub002/internal/payment"
	paymentdomain "github.com/yaseeradam/school-ms-sub002/internal/payment/domain"
	paymentservice "github.com/yaseeradam/school-ms-sub002/internal/payment/service"
	"github.com/yaseeradam/school-ms-sub002/internal/plan"
	plandomain "github.com/yaseeradam/school-ms-sub002/internal/plan/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/ratelimit"
	"github.com/yaseeradam/school-ms-sub002/internal/report"
	reportdomain "github.com/yaseeradam/school-ms-sub002/internal/report/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/school"
	schooldomain "github.com/yaseeradam/school-ms-sub002/internal/school/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolclass"
	classdomain "github.com/yaseeradam/school-ms-sub002/internal/schoolclass/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/student"
	studentdomain "github.com/yaseeradam/school-ms-sub002/internal/student/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/subject"
	subjectdomain "github.com/yaseeradam/school-ms-sub002/internal/subject/domain"
	"github.com/yaseeradam/school-ms-sub002/internal/subscription"
	teacherfeature "github.com/yaseeradam/school-ms-sub002/internal/teacher"
	teacherdomain "github.com/yaseeradam/school-ms-sub002/internal/teacher/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	ratelimit.Module,
	plan.Module,
	school.Module,
	student.Module,
	teacherfeature.Module,
	guardian.Module,
	schoolclass.Module,
	subject.Module,
	attendance.Module,
	notification.Module,
	chat.Module,
	report.Module,
	subscription.Module,
	payment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	tokens *auth.Issuer
	genID  *snowflake.Node

	planSvc     plandomain.Service
	schoolSvc   schooldomain.Service
	studentSvc  studentdomain.Service
	teacherSvc  teacherdomain.Service
	guardianSvc guardiandomain.Service
	classSvc    classdomain.Service
	chatSvc     chatdomain.Service
	reportSvc   reportdomain.Service
	paymentSvc  *paymentservice.Service
	webhookSvc  paymentdomain.Service

	subjectSvc      subjectdomain.Service
	attendanceSvc   attendancedomain.Service
	notificationSvc notificationdomain.Service

	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin    *gin.Engine
	Cfg    config.Config
	DB     *gorm.DB
	Tokens *auth.Issuer
	GenID  *snowflake.Node

	PlanSvc     plandomain.Service
	SchoolSvc   schooldomain.Service
	StudentSvc  studentdomain.Service
	TeacherSvc  teacherdomain.Service
	GuardianSvc guardiandomain.Service
	ClassSvc    classdomain.Service
	ChatSvc     chatdomain.Service
	ReportSvc   reportdomain.Service
	PaymentSvc  *paymentservice.Service
	WebhookSvc  paymentdomain.Service

	SubjectSvc      subjectdomain.Service
	AttendanceSvc   attendancedomain.Service
	NotificationSvc notificationdomain.Service

	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		tokens:      p.Tokens,
		genID:       p.GenID,
		planSvc:     p.PlanSvc,
		schoolSvc:   p.SchoolSvc,
		studentSvc:  p.StudentSvc,
		teacherSvc:  p.TeacherSvc,
		guardianSvc: p.GuardianSvc,
		classSvc:    p.ClassSvc,
		chatSvc:     p.ChatSvc,
		reportSvc:   p.ReportSvc,
		paymentSvc:  p.PaymentSvc,
		webhookSvc:  p.WebhookSvc,
		obsMetrics:  p.ObsMetrics,

		subjectSvc:      p.SubjectSvc,
		attendanceSvc:   p.AttendanceSvc,
		notificationSvc: p.NotificationSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Plans --------
	api.GET("/plans", s.ListPlans)
	api.POST("/plans", s.AuthRequired(), s.RequireRole(auth.RoleDeveloper), s.CreatePlan)
	api.GET("/plans/:id", s.GetPlanByID)

	// -------- Payment Webhooks --------
	api.POST("/payments/webhooks/:provider", s.HandlePaymentWebhook)

	authed := api.Group("", s.AuthRequired())

	// -------- Payments --------
	authed.POST("/payments", s.RequireRole(auth.RoleAdmin), s.CreateCheckout)
	authed.GET("/payments", s.RequireRole(auth.RoleAdmin), s.ListPayments)
	authed.GET("/payments/verify/paystack", s.RequireRole(auth.RoleAdmin), s.VerifyPaystackCheckout)
	authed.GET("/payments/verify/stripe", s.RequireRole(auth.RoleAdmin), s.VerifyStripeCheckout)
	authed.GET("/payments/:id", s.RequireRole(auth.RoleAdmin), s.GetPaymentByID)

	// -------- School --------
	authed.GET("/school", s.GetSchool)
	authed.PUT("/school", s.RequireRole(auth.RoleAdmin), s.UpdateSchool)
	authed.GET("/school/subscription", s.RequireRole(auth.RoleAdmin), s.GetSubscriptionSummary)

	// -------- Students --------
	authed.GET("/students", s.ListStudents)
	authed.GET("/students/by-class", s.ListStudentsByClass)
	authed.POST("/students", s.RequireRole(auth.RoleAdmin), s.CreateStudent)
	authed.GET("/students/:id", s.GetStudentByID)
	authed.PUT("/students/:id", s.RequireRole(auth.RoleAdmin), s.UpdateStudent)
	authed.DELETE("/students/:id", s.RequireRole(auth.RoleAdmin), s.DeleteStudent)

	// -------- Teachers --------
	authed.GET("/teachers", s.ListTeachers)
	authed.POST("/teachers", s.RequireRole(auth.RoleAdmin), s.CreateTeacher)
	authed.GET("/teachers/:id", s.GetTeacherByID)
	authed.PUT("/teachers/:id", s.RequireRole(auth.RoleAdmin), s.UpdateTeacher)
	authed.DELETE("/teachers/:id", s.RequireRole(auth.RoleAdmin), s.DeleteTeacher)

	// -------- Guardians --------
	authed.GET("/guardians", s.ListGuardians)
	authed.POST("/guardians", s.RequireRole(auth.RoleAdmin), s.CreateGuardian)
	authed.GET("/guardians/:id", s.GetGuardianByID)
	authed.PUT("/guardians/:id", s.RequireRole(auth.RoleAdmin), s.UpdateGuardian)
	authed.DELETE("/guardians/:id", s.RequireRole(auth.RoleAdmin), s.DeleteGuardian)

	// -------- Classes --------
	authed.GET("/classes", s.ListClasses)
	authed.POST("/classes", s.RequireRole(auth.RoleAdmin), s.CreateClass)
	authed.GET("/classes/:id", s.GetClassByID)
	authed.PUT("/classes/:id", s.RequireRole(auth.RoleAdmin), s.UpdateClass)
	authed.DELETE("/classes/:id", s.RequireRole(auth.RoleAdmin), s.DeleteClass)

	// -------- Subjects --------
	authed.GET("/subjects", s.RequireRole(auth.RoleAdmin, auth.RoleTeacher), s.ListSubjects)
	authed.POST("/subjects", s.RequireRole(auth.RoleAdmin), s.CreateSubject)
	authed.GET("/teacher-assignments", s.RequireRole(auth.RoleAdmin, auth.RoleTeacher), s.ListTeacherAssignments)
	authed.POST("/teacher-assignments", s.RequireRole(auth.RoleAdmin), s.AssignTeacher)

	// -------- Attendance --------
	authed.GET("/attendance", s.ListAttendance)
	authed.POST("/attendance", s.RequireRole(auth.RoleAdmin, auth.RoleTeacher), s.MarkAttendance)
	authed.POST("/attendance/bulk", s.RequireRole(auth.RoleAdmin, auth.RoleTeacher), s.MarkAttendanceBulk)

	// -------- Notifications --------
	authed.GET("/notifications", s.ListNotifications)
	authed.POST("/notifications/mark-read", s.MarkNotificationsRead)

	// -------- Chat --------
	authed.GET("/chat/conversations", s.ListConversations)
	authed.POST("/chat/conversations", s.StartConversation)
	authed.GET("/chat/conversations/:id/messages", s.ListMessages)
	authed.POST("/chat/conversations/:id/messages", s.SendMessage)

	// -------- Reports --------
	authed.GET("/reports/overview", s.RequireRole(auth.RoleAdmin), s.GetReportOverview)
	authed.GET("/reports/attendance", s.RequireRole(auth.RoleAdmin, auth.RoleTeacher), s.GetAttendanceReport)
}
