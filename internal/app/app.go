// Package app assembles repositories, services and HTTP routes into a
// runnable fiber application.
package app

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/careerhub/career-api/internal/api/http"
	"github.com/careerhub/career-api/internal/api/http/handlers"
	"github.com/careerhub/career-api/internal/auth"
	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/email"
	"github.com/careerhub/career-api/internal/events"
	"github.com/careerhub/career-api/internal/observability"
	"github.com/careerhub/career-api/internal/persistence"
	"github.com/careerhub/career-api/internal/ratelimit"
	"github.com/careerhub/career-api/internal/repository"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/store"
	"github.com/careerhub/career-api/internal/validation"
	"github.com/careerhub/career-api/internal/worker"
)

// Dependencies are the infrastructure handles the application runs on.
type Dependencies struct {
	Store   store.Store
	Redis   *persistence.Redis
	Mailer  email.Mailer
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Limiter ratelimit.Limiter
}

// Repositories groups every repository over one store.
type Repositories struct {
	Users           repository.UserRepository
	Institutions    repository.InstitutionRepository
	Faculties       repository.FacultyRepository
	Courses         repository.CourseRepository
	Applications    repository.ApplicationRepository
	Transcripts     repository.TranscriptRepository
	Jobs            repository.JobRepository
	JobApplications repository.JobApplicationRepository
	Notifications   repository.NotificationRepository
	Reports         repository.ReportRepository
}

// NewRepositories builds the repositories backed by s.
func NewRepositories(s store.Store) Repositories {
	return Repositories{
		Users:           repository.NewUserRepository(s),
		Institutions:    repository.NewInstitutionRepository(s),
		Faculties:       repository.NewFacultyRepository(s),
		Courses:         repository.NewCourseRepository(s),
		Applications:    repository.NewApplicationRepository(s),
		Transcripts:     repository.NewTranscriptRepository(s),
		Jobs:            repository.NewJobRepository(s),
		JobApplications: repository.NewJobApplicationRepository(s),
		Notifications:   repository.NewNotificationRepository(s),
		Reports:         repository.NewReportRepository(s),
	}
}

// Services groups the business services.
type Services struct {
	Auth          *service.AuthService
	Notifications *service.NotificationService
	Institutions  *service.InstitutionService
	Students      *service.StudentService
	Applications  *service.ApplicationService
	Companies     *service.CompanyService
	Jobs          *service.JobService
	Admin         *service.AdminService
}

// App is the assembled HTTP application.
type App struct {
	Fiber        *fiber.App
	Repositories Repositories
	Services     Services
}

// New wires the application. Notification handlers are subscribed before
// it returns, so events raised by the first request are delivered.
func New(cfg config.Config, deps Dependencies) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	limiter := deps.Limiter
	if limiter == nil {
		if deps.Redis.Enabled() {
			limiter = ratelimit.New(deps.Redis.Client)
		} else {
			limiter = ratelimit.NewMemoryLimiter()
		}
	}

	repos := NewRepositories(deps.Store)
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())

	notifications := service.NewNotificationService(service.NotificationDependencies{
		Mailer:           deps.Mailer,
		NotificationRepo: repos.Notifications,
		Dispatcher:       dispatcher,
		Logger:           logger.Named("notifications"),
		FrontendURL:      cfg.App.FrontendURL,
	})
	worker.StartNotificationWorker(notifications, logger)

	jobs := service.NewJobService(service.JobDependencies{
		JobRepo:            repos.Jobs,
		JobApplicationRepo: repos.JobApplications,
		UserRepo:           repos.Users,
		Dispatcher:         dispatcher,
		Logger:             logger.Named("jobs"),
	})
	svc := Services{
		Auth: service.NewAuthService(cfg, service.AuthDependencies{
			UserRepo:        repos.Users,
			InstitutionRepo: repos.Institutions,
			Notifier:        notifications,
			TokenManager:    tokens,
			Logger:          logger.Named("auth"),
		}),
		Notifications: notifications,
		Institutions: service.NewInstitutionService(service.InstitutionDependencies{
			InstitutionRepo: repos.Institutions,
			FacultyRepo:     repos.Faculties,
			CourseRepo:      repos.Courses,
			Logger:          logger.Named("institutions"),
		}),
		Students: service.NewStudentService(service.StudentDependencies{
			UserRepo:           repos.Users,
			TranscriptRepo:     repos.Transcripts,
			CourseRepo:         repos.Courses,
			InstitutionRepo:    repos.Institutions,
			ApplicationRepo:    repos.Applications,
			JobApplicationRepo: repos.JobApplications,
		}),
		Applications: service.NewApplicationService(service.ApplicationDependencies{
			ApplicationRepo: repos.Applications,
			CourseRepo:      repos.Courses,
			InstitutionRepo: repos.Institutions,
			Dispatcher:      dispatcher,
			Logger:          logger.Named("applications"),
		}),
		Companies: service.NewCompanyService(repos.Users, repos.Jobs, repos.JobApplications),
		Jobs:      jobs,
		Admin: service.NewAdminService(service.AdminDependencies{
			UserRepo:        repos.Users,
			InstitutionRepo: repos.Institutions,
			ReportRepo:      repos.Reports,
			Metrics:         metrics,
			Logger:          logger.Named("admin"),
		}),
	}

	v := validation.New()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:     logger,
		Metrics:    metrics,
		Timeout:    cfg.App.RequestTimeout(),
		CORSOrigin: cfg.App.CORSOrigin,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, deps.Store, deps.Redis),
		Auth:         handlers.NewAuthHandler(svc.Auth, v),
		Institutions: handlers.NewInstitutionsHandler(svc.Institutions, v),
		Students: handlers.NewStudentsHandler(handlers.StudentsHandlerDeps{
			Students:      svc.Students,
			Applications:  svc.Applications,
			Jobs:          svc.Jobs,
			Notifications: svc.Notifications,
			Validator:     v,
		}),
		Applications:   handlers.NewApplicationsHandler(svc.Applications, v),
		Companies:      handlers.NewCompaniesHandler(svc.Companies, svc.Jobs, v),
		Jobs:           handlers.NewJobsHandler(svc.Jobs, v),
		Admin:          handlers.NewAdminHandler(svc.Admin, v),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.Users),
		Limiter:        limiter,
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window(),
	})

	return &App{Fiber: app, Repositories: repos, Services: svc}
}

// Seed loads the bootstrap admin and demo catalogue into the app's store.
func (a *App) Seed(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	return service.Seed(ctx, cfg, service.SeedDependencies{
		UserRepo:        a.Repositories.Users,
		InstitutionRepo: a.Repositories.Institutions,
		FacultyRepo:     a.Repositories.Faculties,
		CourseRepo:      a.Repositories.Courses,
		Logger:          logger,
	})
}
