package app

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vitum_backend/config"
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
	"github.com/Alijeyrad/vitum_backend/pkg/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideCalendarService,
		ProvideLedgerService,
		ProvideAppointmentService,
		ProvidePatientService,
		ProvideStaffService,
		ProvideClassService,
		ProvidePackageService,
		ProvideFinanceService,
		ProvideEvolutionService,
		ProvideDashboardService,
		ProvidePasetoManager,
		ProvidePasswordHasher,
		ProvideAuthService,
	),
)

// ProvideCalendarService caches windows in Redis when a client is available.
func ProvideCalendarService(db *store.Store, rdb *redis.Client, cfg *config.Config) calendar.Service {
	var cache calendar.Cache = calendar.NopCache{}
	if rdb != nil {
		cache = calendar.NewRedisCache(rdb, cfg.Scheduling.CacheTTL())
	}
	return calendar.New(db, cache, calendar.Config{
		Location:           cfg.Scheduling.Location(),
		WindowWeeks:        cfg.Scheduling.WindowWeeks,
		DedupeMaterialized: cfg.Scheduling.DedupeMaterialized,
	}, time.Now)
}

func ProvideLedgerService(db *store.Store, cal calendar.Service) ledger.Service {
	return ledger.New(db, cal.Location(), cal)
}

func ProvideAppointmentService(db *store.Store, cal calendar.Service) appointment.Service {
	return appointment.New(db, cal)
}

func ProvidePatientService(db *store.Store, cal calendar.Service, cfg *config.Config) patient.Service {
	return patient.New(db, cal, cfg.Scheduling.DefaultPhoneRegion)
}

func ProvideStaffService(db *store.Store, cal calendar.Service, cfg *config.Config) staff.Service {
	return staff.New(db, cal, cfg.Scheduling.DefaultPhoneRegion)
}

func ProvideClassService(db *store.Store, cal calendar.Service) class.Service {
	return class.New(db, cal)
}

func ProvidePackageService(db *store.Store) packages.Service {
	return packages.New(db)
}

func ProvideFinanceService(db *store.Store, cfg *config.Config) finance.Service {
	return finance.New(db, cfg.Scheduling.Location(), time.Now)
}

func ProvideEvolutionService(db *store.Store) evolution.Service {
	return evolution.New(db, time.Now)
}

func ProvideDashboardService(db *store.Store) dashboard.Service {
	return dashboard.New(db)
}

// ProvidePasetoManager yields nil when sign-in is disabled; the router then
// leaves the API open.
func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	if !cfg.Auth.Enabled {
		return nil, nil
	}
	return pasetotoken.FromCentralConfig(cfg.Auth.Paseto)
}

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.NewHasher(password.FromCentralConfig(cfg.Auth.Password))
}

func ProvideAuthService(db *store.Store, hasher *password.Hasher, tokens *pasetotoken.Manager) auth.Service {
	if tokens == nil {
		return nil
	}
	return auth.New(db, hasher, tokens, time.Now)
}
