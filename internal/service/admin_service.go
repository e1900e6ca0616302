package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/observability"
	"github.com/careerhub/career-api/internal/repository"
	"github.com/careerhub/career-api/internal/store"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// AdminService implements moderation and reporting.
type AdminService struct {
	users        repository.UserRepository
	institutions repository.InstitutionRepository
	reports      repository.ReportRepository
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// AdminDependencies bundles collaborators for the admin service.
type AdminDependencies struct {
	UserRepo        repository.UserRepository
	InstitutionRepo repository.InstitutionRepository
	ReportRepo      repository.ReportRepository
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:        deps.UserRepo,
		institutions: deps.InstitutionRepo,
		reports:      deps.ReportRepo,
		metrics:      deps.Metrics,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func invalidStatus(allowed string) error {
	return apperrors.NewValidationError("Invalid or missing fields: status",
		map[string]any{"errors": map[string]any{"status": "must be one of: " + allowed}})
}

// ListUsers returns accounts filtered by optional role and status.
func (s *AdminService) ListUsers(ctx context.Context, role, status string) ([]domain.User, error) {
	filter := repository.UserFilter{
		Role:   domain.Role(strings.TrimSpace(role)),
		Status: domain.UserStatus(strings.TrimSpace(status)),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.NewValidationError("Invalid or missing fields: role",
			map[string]any{"errors": map[string]any{"role": "must be one of: student, institution, company, admin"}})
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidStatus("active, suspended, pending")
	}
	return s.users.List(ctx, filter)
}

// UpdateUserStatus activates, suspends or parks an account. Admins cannot
// change their own status.
func (s *AdminService) UpdateUserStatus(ctx context.Context, admin *domain.User, id string, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, invalidStatus("active, suspended, pending")
	}
	if admin != nil && admin.ID == id {
		return nil, apperrors.NewBadRequest("You cannot change your own status")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return s.setUserStatus(ctx, user, status)
}

func (s *AdminService) setUserStatus(ctx context.Context, user *domain.User, status domain.UserStatus) (*domain.User, error) {
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(err, "User")
	}
	s.logger.Info("user status changed", zap.String("user_id", user.ID), zap.String("status", string(status)))
	return user, nil
}

// ListInstitutions returns institutions of any status, or only status when given.
func (s *AdminService) ListInstitutions(ctx context.Context, status string) ([]domain.Institution, error) {
	st := domain.InstitutionStatus(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, invalidStatus("active, pending, suspended")
	}
	return s.institutions.List(ctx, st)
}

// InstitutionInput carries admin-created institution data.
type InstitutionInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Website     string
	Description string
}

// CreateInstitution registers an institution directly. Admin-created
// institutions are active and verified.
func (s *AdminService) CreateInstitution(ctx context.Context, in InstitutionInput) (*domain.Institution, error) {
	inst, err := domain.NewInstitution(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	inst.Phone = strings.TrimSpace(in.Phone)
	inst.Address = strings.TrimSpace(in.Address)
	inst.Website = strings.TrimSpace(in.Website)
	inst.Description = strings.TrimSpace(in.Description)
	inst.SetStatus(domain.InstitutionStatusActive)

	if err := s.institutions.Create(ctx, inst); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.NewConflict("An institution with this email already exists", nil)
		}
		return nil, err
	}
	s.logger.Info("institution created", zap.String("institution_id", inst.ID))
	return inst, nil
}

// UpdateInstitutionStatus approves, parks or suspends an institution.
func (s *AdminService) UpdateInstitutionStatus(ctx context.Context, id string, status domain.InstitutionStatus) (*domain.Institution, error) {
	if !status.Valid() {
		return nil, invalidStatus("active, pending, suspended")
	}
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Institution")
	}
	inst.SetStatus(status)
	if err := s.institutions.Update(ctx, inst); err != nil {
		return nil, storeError(err, "Institution")
	}
	s.logger.Info("institution status changed", zap.String("institution_id", id), zap.String("status", string(status)))
	return inst, nil
}

// ListCompanies returns company accounts, optionally filtered by status.
func (s *AdminService) ListCompanies(ctx context.Context, status string) ([]domain.User, error) {
	return s.ListUsers(ctx, string(domain.RoleCompany), status)
}

// UpdateCompanyStatus changes the status of a company account.
func (s *AdminService) UpdateCompanyStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, invalidStatus("active, suspended, pending")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Company")
	}
	if user.Role != domain.RoleCompany {
		return nil, apperrors.NewNotFound("Company", nil)
	}
	return s.setUserStatus(ctx, user, status)
}

// Report is the admin dashboard summary.
type Report struct {
	Users           map[string]int         `json:"users"`
	Institutions    map[string]int         `json:"institutions"`
	Courses         map[string]int         `json:"courses"`
	Applications    map[string]int         `json:"applications"`
	Jobs            map[string]int         `json:"jobs"`
	JobApplications map[string]int         `json:"jobApplications"`
	Requests        observability.Snapshot `json:"requests"`
	GeneratedAt     time.Time              `json:"generatedAt"`
}

type reportGroup struct {
	collection string
	field      string
	values     []string
	dst        *map[string]int
}

// Reports counts records per collection and per status or role, and
// attaches the request metrics.
func (s *AdminService) Reports(ctx context.Context) (*Report, error) {
	report := &Report{GeneratedAt: s.now()}
	groups := []reportGroup{
		{store.CollectionUsers, "role", []string{"student", "institution", "company", "admin"}, &report.Users},
		{store.CollectionInstitutions, "status", []string{"active", "pending", "suspended"}, &report.Institutions},
		{store.CollectionCourses, "status", []string{"open", "closed", "waitlist"}, &report.Courses},
		{store.CollectionApplications, "status", []string{"pending", "admitted", "rejected", "waitlist"}, &report.Applications},
		{store.CollectionJobs, "status", []string{"open", "closed"}, &report.Jobs},
		{store.CollectionJobApplications, "status", []string{"pending", "reviewed", "accepted", "rejected"}, &report.JobApplications},
	}

	for _, g := range groups {
		counts := make(map[string]int, len(g.values)+1)
		total, err := s.reports.Count(ctx, g.collection)
		if err != nil {
			return nil, err
		}
		counts["total"] = total
		for _, v := range g.values {
			n, err := s.reports.Count(ctx, g.collection, store.Eq(g.field, v))
			if err != nil {
				return nil, err
			}
			counts[v] = n
		}
		*g.dst = counts
	}

	suspended, err := s.reports.Count(ctx, store.CollectionUsers, store.Eq("status", string(domain.UserStatusSuspended)))
	if err != nil {
		return nil, err
	}
	unverified, err := s.reports.Count(ctx, store.CollectionUsers, store.Eq("isVerified", false))
	if err != nil {
		return nil, err
	}
	report.Users["suspended"] = suspended
	report.Users["unverified"] = unverified

	report.Requests = s.metrics.Snapshot()
	return report, nil
}
