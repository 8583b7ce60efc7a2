// Package service implements the write workflows behind the form
// endpoints: hashing credentials, enforcing listing ownership, and driving
// the repository's transactional writes. Input has already been validated
// by the validation package before it reaches this layer.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/havenrealty/agentdesk/internal/models"
	"github.com/havenrealty/agentdesk/internal/repository"
	"github.com/havenrealty/agentdesk/internal/validation"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login failures don't reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotListingAgent is returned when an agent tries to schedule a
	// viewing for a property they do not list.
	ErrNotListingAgent = errors.New("you are not the listing agent for this property")
)

// Service defines the business operations behind the HTTP handlers.
type Service interface {
	// Authentication
	Login(ctx context.Context, email, password string) (*models.Account, error)
	ResolveAgent(ctx context.Context, accountID int64) (*models.AgentProfile, error)

	// Write workflows
	CreateClient(ctx context.Context, cmd validation.ClientCreationCommand, agentID int64) (int64, error)
	ScheduleViewing(ctx context.Context, cmd validation.ViewingCommand, agentID int64) (int64, error)

	// List pages
	Clients(ctx context.Context) ([]models.Account, error)
	Properties(ctx context.Context, agentID int64) ([]models.Property, error)
	Viewings(ctx context.Context, agentID int64) ([]models.ViewingRow, error)
	Inquiries(ctx context.Context, agentID int64) ([]models.InquiryRow, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo repository.Repository
}

// NewDefaultService creates a new DefaultService.
func NewDefaultService(repo repository.Repository) Service {
	return &DefaultService{repo: repo}
}

func (s *DefaultService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// ResolveAgent maps an authenticated account to its agent profile. Returns
// nil when the account has no profile (not an agent).
func (s *DefaultService) ResolveAgent(ctx context.Context, accountID int64) (*models.AgentProfile, error) {
	return s.repo.GetAgentProfileByAccountID(ctx, accountID)
}

// CreateClient hashes the command's password and creates the client
// account with its optional initial note as one atomic unit. A concurrent
// insert of the same email surfaces as repository.ErrDuplicateEmail.
func (s *DefaultService) CreateClient(ctx context.Context, cmd validation.ClientCreationCommand, agentID int64) (int64, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		Email:        cmd.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Phone:        nullString(cmd.Phone),
	}

	accountID, err := s.repo.CreateClientWithNote(ctx, account, cmd.Notes, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating client: %w", err)
	}

	return accountID, nil
}

// ScheduleViewing verifies the acting agent lists the chosen property and
// inserts one confirmed viewing. The client reference stays null when the
// command carries none.
func (s *DefaultService) ScheduleViewing(ctx context.Context, cmd validation.ViewingCommand, agentID int64) (int64, error) {
	listed, err := s.repo.IsListingAgent(ctx, cmd.PropertyID, agentID)
	if err != nil {
		return 0, fmt.Errorf("error checking listing ownership: %w", err)
	}

	if !listed {
		return 0, ErrNotListingAgent
	}

	viewing := &models.PropertyViewing{
		PropertyID:      cmd.PropertyID,
		AgentID:         agentID,
		ClientAccountID: cmd.ClientID,
		ScheduledAt:     cmd.ScheduledAt,
		Status:          models.StatusConfirmed,
		Notes:           nullString(cmd.Notes),
	}

	viewingID, err := s.repo.CreateViewing(ctx, viewing)
	if err != nil {
		return 0, fmt.Errorf("error creating viewing: %w", err)
	}

	return viewingID, nil
}

func (s *DefaultService) Clients(ctx context.Context) ([]models.Account, error) {
	return s.repo.ListClients(ctx)
}

func (s *DefaultService) Properties(ctx context.Context, agentID int64) ([]models.Property, error) {
	return s.repo.ListPropertiesForAgent(ctx, agentID)
}

func (s *DefaultService) Viewings(ctx context.Context, agentID int64) ([]models.ViewingRow, error) {
	return s.repo.ListViewingsForAgent(ctx, agentID)
}

func (s *DefaultService) Inquiries(ctx context.Context, agentID int64) ([]models.InquiryRow, error) {
	return s.repo.ListInquiriesForAgent(ctx, agentID)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
