package service

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/repository"
)

// CompanyService serves the company account's profile.
type CompanyService struct {
	users        repository.UserRepository
	jobs         repository.JobRepository
	applications repository.JobApplicationRepository
}

func NewCompanyService(users repository.UserRepository, jobs repository.JobRepository, applications repository.JobApplicationRepository) *CompanyService {
	return &CompanyService{users: users, jobs: jobs, applications: applications}
}

// CompanyProfile is a company account with posting statistics.
type CompanyProfile struct {
	User              *domain.User
	TotalJobs         int
	OpenJobs          int
	TotalApplications int
}

// Profile returns the company account with its posting counts.
func (s *CompanyService) Profile(ctx context.Context, companyID string) (*CompanyProfile, error) {
	user, err := s.users.GetByID(ctx, companyID)
	if err != nil {
		return nil, storeError(err, "Company")
	}
	jobs, err := s.jobs.List(ctx, repository.JobFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.List(ctx, repository.JobApplicationFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}

	profile := &CompanyProfile{User: user, TotalJobs: len(jobs), TotalApplications: len(apps)}
	for _, job := range jobs {
		if job.Status == domain.JobStatusOpen {
			profile.OpenJobs++
		}
	}
	return profile, nil
}

// UpdateProfile edits the company's name and contact details.
func (s *CompanyService) UpdateProfile(ctx context.Context, companyID string, in ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, companyID)
	if err != nil {
		return nil, storeError(err, "Company")
	}
	if err := applyProfileUpdate(user, in); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
