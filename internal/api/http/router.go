package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/http/handlers"
	"github.com/careerhub/career-api/internal/auth"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Institutions   *handlers.InstitutionsHandler
	Students       *handlers.StudentsHandler
	Applications   *handlers.ApplicationsHandler
	Companies      *handlers.CompaniesHandler
	Jobs           *handlers.JobsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiter        ratelimit.Limiter
	RateLimit      int
	RateWindow     time.Duration
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle
	limited := RateLimit(cfg.Limiter, cfg.RateLimit, cfg.RateWindow)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limited, cfg.Auth.Register)
	authGroup.Post("/login", limited, cfg.Auth.Login)
	authGroup.Get("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Post("/resend-verification", limited, cfg.Auth.ResendVerification)
	authGroup.Post("/forgot-password", limited, cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", limited, cfg.Auth.ResetPassword)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)
	authGroup.Patch("/profile", authenticated, cfg.Auth.UpdateProfile)
	authGroup.Post("/change-password", authenticated, cfg.Auth.ChangePassword)

	// /me routes are registered before /:id so the literal segment wins.
	institutions := api.Group("/institutions")
	mine := institutions.Group("/me", authenticated, auth.Authorize(domain.RoleInstitution))
	mine.Get("/", cfg.Institutions.Mine)
	mine.Patch("/", cfg.Institutions.UpdateMine)
	mine.Post("/faculties", cfg.Institutions.AddFaculty)
	mine.Post("/courses", cfg.Institutions.AddCourse)
	mine.Patch("/courses/:courseId", cfg.Institutions.UpdateCourse)
	mine.Delete("/courses/:courseId", cfg.Institutions.DeleteCourse)
	institutions.Get("/", cfg.Institutions.List)
	institutions.Get("/:id", cfg.Institutions.Get)
	institutions.Get("/:id/courses", cfg.Institutions.Courses)
	institutions.Get("/:id/faculties", cfg.Institutions.Faculties)

	students := api.Group("/students", authenticated, auth.Authorize(domain.RoleStudent))
	students.Get("/profile", cfg.Students.Profile)
	students.Put("/transcript", cfg.Students.SaveTranscript)
	students.Get("/transcript", cfg.Students.Transcript)
	students.Get("/courses/qualified", cfg.Students.QualifiedCourses)
	students.Get("/applications", cfg.Students.Applications)
	students.Get("/job-applications", cfg.Students.JobApplications)
	students.Get("/notifications", cfg.Students.Notifications)
	students.Patch("/notifications/:id/read", cfg.Students.MarkNotificationRead)

	applications := api.Group("/applications", authenticated)
	applications.Post("/", auth.Authorize(domain.RoleStudent), cfg.Applications.Create)
	applications.Get("/", auth.Authorize(domain.RoleStudent, domain.RoleInstitution, domain.RoleAdmin), cfg.Applications.List)
	applications.Get("/:id", cfg.Applications.Get)
	applications.Patch("/:id/status", auth.Authorize(domain.RoleInstitution, domain.RoleAdmin), cfg.Applications.UpdateStatus)
	applications.Delete("/:id", auth.Authorize(domain.RoleStudent), cfg.Applications.Withdraw)

	companies := api.Group("/companies", authenticated, auth.Authorize(domain.RoleCompany))
	companies.Get("/profile", cfg.Companies.Profile)
	companies.Patch("/profile", cfg.Companies.UpdateProfile)
	companies.Post("/jobs", cfg.Companies.CreateJob)
	companies.Get("/jobs", cfg.Companies.Jobs)
	companies.Patch("/jobs/:id", cfg.Companies.UpdateJob)
	companies.Patch("/jobs/:id/status", cfg.Companies.UpdateJobStatus)
	companies.Get("/jobs/:id/applications", cfg.Companies.Applicants)
	companies.Patch("/applications/:id/status", cfg.Companies.UpdateApplicationStatus)

	jobs := api.Group("/jobs")
	jobs.Post("/apply", authenticated, auth.Authorize(domain.RoleStudent), cfg.Jobs.Apply)
	jobs.Get("/", cfg.Jobs.List)
	jobs.Get("/:id", cfg.Jobs.Get)

	admin := api.Group("/admin", authenticated, auth.Authorize(domain.RoleAdmin))
	admin.Get("/users", cfg.Admin.Users)
	admin.Patch("/users/:id/status", cfg.Admin.UpdateUserStatus)
	admin.Get("/institutions", cfg.Admin.Institutions)
	admin.Post("/institutions", cfg.Admin.CreateInstitution)
	admin.Patch("/institutions/:id/status", cfg.Admin.UpdateInstitutionStatus)
	admin.Get("/companies", cfg.Admin.Companies)
	admin.Patch("/companies/:id/status", cfg.Admin.UpdateCompanyStatus)
	admin.Get("/reports", cfg.Admin.Reports)
}
