package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
	"github.com/Alijeyrad/vitum_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/vitum_backend/internal/service/appointment"
	"github.com/Alijeyrad/vitum_backend/internal/service/auth"
	"github.com/Alijeyrad/vitum_backend/internal/service/calendar"
	"github.com/Alijeyrad/vitum_backend/internal/service/class"
	"github.com/Alijeyrad/vitum_backend/internal/service/dashboard"
	"github.com/Alijeyrad/vitum_backend/internal/service/evolution"
	"github.com/Alijeyrad/vitum_backend/internal/service/finance"
	"github.com/Alijeyrad/vitum_backend/internal/service/ledger"
	"github.com/Alijeyrad/vitum_backend/internal/service/packages"
	"github.com/Alijeyrad/vitum_backend/internal/service/patient"
	"github.com/Alijeyrad/vitum_backend/internal/service/staff"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	pasetotoken "github.com/Alijeyrad/vitum_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Store          *store.Store
	Redis          *redis.Client        `optional:"true"`
	Paseto         *pasetotoken.Manager `optional:"true"`
	AuthSvc        auth.Service         `optional:"true"`
	CalendarSvc    calendar.Service
	LedgerSvc      ledger.Service
	AppointmentSvc appointment.Service
	PatientSvc     patient.Service
	StaffSvc       staff.Service
	ClassSvc       class.Service
	PackageSvc     packages.Service
	FinanceSvc     finance.Service
	EvolutionSvc   evolution.Service
	DashboardSvc   dashboard.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	calendarH := handler.NewCalendarHandler(r.p.CalendarSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.LedgerSvc, r.p.CalendarSvc.Location())
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	staffH := handler.NewStaffHandler(r.p.StaffSvc)
	classH := handler.NewClassHandler(r.p.ClassSvc)
	packageH := handler.NewPackageHandler(r.p.PackageSvc)
	transactionH := handler.NewTransactionHandler(r.p.FinanceSvc)
	evolutionH := handler.NewEvolutionHandler(r.p.EvolutionSvc)
	dashboardH := handler.NewDashboardHandler(r.p.DashboardSvc)

	// Auth routes go first: fiber matches in registration order, so the
	// login and refresh handlers answer before the group guard below runs.
	var api fiber.Router
	if r.authEnabled() {
		r.registerAuthRoutes(app.Group("/api/v1/auth"), handler.NewAuthHandler(r.p.AuthSvc))
		api = app.Group("/api/v1", middleware.AuthRequired(r.p.Paseto))
	} else {
		api = app.Group("/api/v1")
	}

	r.registerCalendarRoutes(api, calendarH)
	r.registerAppointmentRoutes(api, appointmentH)
	r.registerPatientRoutes(api, patientH, packageH, evolutionH)
	r.registerStaffRoutes(api, staffH)
	r.registerClassRoutes(api, classH)
	r.registerPackageRoutes(api, packageH)
	r.registerTransactionRoutes(api, transactionH)
	api.Get("/dashboard", dashboardH.Stats)
}

func (r *Router) authEnabled() bool {
	return r.p.Cfg.Auth.Enabled && r.p.Paseto != nil && r.p.AuthSvc != nil
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: r.ready,
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// ready needs the database, and Redis when it is configured.
func (r *Router) ready(c fiber.Ctx) bool {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := r.p.Store.Driver().DB().PingContext(ctx); err != nil {
		return false
	}
	if r.p.Redis != nil {
		return r.p.Redis.Ping(ctx).Err() == nil
	}
	return true
}
