package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/auth"
	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/repository"
)

// SeedDependencies bundles repositories written by Seed.
type SeedDependencies struct {
	UserRepo        repository.UserRepository
	InstitutionRepo repository.InstitutionRepository
	FacultyRepo     repository.FacultyRepository
	CourseRepo      repository.CourseRepository
	Logger          *zap.Logger
}

type seedCourse struct {
	name     string
	subjects []string
	minimum  float64
	duration string
	fees     float64
	seats    int
}

type seedFaculty struct {
	name    string
	courses []seedCourse
}

type seedInstitution struct {
	name, email, address, website, description string
	faculties                                  []seedFaculty
}

var demoInstitutions = []seedInstitution{
	{
		name:        "Limkokwing University of Creative Technology",
		email:       "info@limkokwing.example.com",
		address:     "Maseru, Lesotho",
		website:     "https://www.limkokwing.example.com",
		description: "Creative technology, design and business programmes.",
		faculties: []seedFaculty{
			{name: "Faculty of Information & Communication Technology", courses: []seedCourse{
				{"BSc in Software Engineering with Multimedia", []string{"Mathematics", "English"}, 60, "4 years", 45000, 50},
				{"Diploma in Information Technology", []string{"Mathematics"}, 50, "3 years", 30000, 80},
			}},
			{name: "Faculty of Design Innovation", courses: []seedCourse{
				{"BA in Graphic Design", []string{"English"}, 50, "3 years", 38000, 40},
			}},
		},
	},
	{
		name:        "National University of Lesotho",
		email:       "admissions@nul.example.com",
		address:     "Roma, Lesotho",
		website:     "https://www.nul.example.com",
		description: "Public research university.",
		faculties: []seedFaculty{
			{name: "Faculty of Science & Technology", courses: []seedCourse{
				{"BSc in Computer Science", []string{"Mathematics", "Physics"}, 65, "4 years", 25000, 60},
				{"BSc in Mathematics", []string{"Mathematics"}, 70, "4 years", 22000, 40},
			}},
			{name: "Faculty of Humanities", courses: []seedCourse{
				{"BA in English Language and Literature", []string{"English"}, 55, "4 years", 18000, 0},
			}},
		},
	},
}

// Seed loads the admin account and demo institutions. It does nothing when
// the admin account already exists, so it is safe to run on every start.
func Seed(ctx context.Context, cfg config.Config, deps SeedDependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := deps.UserRepo.GetByEmail(ctx, cfg.Seed.AdminEmail); err == nil {
		logger.Info("seed data already present")
		return nil
	} else if !isNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	admin, err := domain.NewUser(domain.NewUserInput{
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hash,
		Name:         "System Administrator",
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin.MarkVerified()
	if err := deps.UserRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	courses := 0
	for _, si := range demoInstitutions {
		inst, err := domain.NewInstitution(si.name, si.email)
		if err != nil {
			return err
		}
		inst.Address = si.address
		inst.Website = si.website
		inst.Description = si.description
		inst.SetStatus(domain.InstitutionStatusActive)
		if err := deps.InstitutionRepo.Create(ctx, inst); err != nil {
			return fmt.Errorf("seed institution %s: %w", si.name, err)
		}

		for _, sf := range si.faculties {
			faculty, err := domain.NewFaculty(inst.ID, sf.name, "")
			if err != nil {
				return err
			}
			if err := deps.FacultyRepo.Create(ctx, faculty); err != nil {
				return err
			}
			for _, sc := range sf.courses {
				course, err := domain.NewCourse(domain.NewCourseInput{
					InstitutionID: inst.ID,
					FacultyID:     faculty.ID,
					Name:          sc.name,
					Requirements:  domain.Requirements{Subjects: sc.subjects, MinimumGrade: sc.minimum},
					Duration:      sc.duration,
					Fees:          sc.fees,
					Seats:         sc.seats,
				})
				if err != nil {
					return err
				}
				if err := deps.CourseRepo.Create(ctx, course); err != nil {
					return err
				}
				courses++
			}
		}
	}

	logger.Info("seed data loaded",
		zap.String("admin_email", admin.Email),
		zap.Int("institutions", len(demoInstitutions)),
		zap.Int("courses", courses))
	return nil
}
