package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/havenrealty/agentdesk/internal/models"
)

// ErrDuplicateEmail is returned when an account insert loses the race on
// the case-insensitive email uniqueness index. The validator's pre-check
// is a UX optimization only; this constraint is the correctness guarantee.
var ErrDuplicateEmail = errors.New("an account with this email already exists")

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// Repository defines the storage operations the application needs.
type Repository interface {
	// Account operations
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetClientByID(ctx context.Context, id int64) (*models.Account, error)
	GetAgentProfileByAccountID(ctx context.Context, accountID int64) (*models.AgentProfile, error)

	// Client creation
	CreateClientWithNote(ctx context.Context, account *models.Account, noteBody string, agentID int64) (int64, error)

	// Viewing operations
	IsListingAgent(ctx context.Context, propertyID, agentID int64) (bool, error)
	CreateViewing(ctx context.Context, viewing *models.PropertyViewing) (int64, error)

	// List pages
	ListClients(ctx context.Context) ([]models.Account, error)
	ListPropertiesForAgent(ctx context.Context, agentID int64) ([]models.Property, error)
	ListViewingsForAgent(ctx context.Context, agentID int64) ([]models.ViewingRow, error)
	ListInquiriesForAgent(ctx context.Context, agentID int64) ([]models.InquiryRow, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetDB returns the underlying database connection.
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// Account repository methods

func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT * FROM accounts WHERE lower(email) = lower($1)`

	var account models.Account
	err := r.db.GetContext(ctx, &account, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Account not found
		}
		return nil, err
	}

	return &account, nil
}

func (r *PostgresRepository) GetClientByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT * FROM accounts WHERE id = $1 AND role = $2`

	var account models.Account
	err := r.db.GetContext(ctx, &account, query, id, models.RoleClient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (r *PostgresRepository) GetAgentProfileByAccountID(ctx context.Context, accountID int64) (*models.AgentProfile, error) {
	query := `SELECT * FROM agent_profiles WHERE account_id = $1`

	var profile models.AgentProfile
	err := r.db.GetContext(ctx, &profile, query, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

// CreateClientWithNote inserts a client account and, when noteBody is
// non-empty, exactly one note referencing it and the acting agent. The two
// inserts form one transaction: either both rows become visible or
// neither does. A unique_violation on the email index is mapped to
// ErrDuplicateEmail.
func (r *PostgresRepository) CreateClientWithNote(ctx context.Context, account *models.Account, noteBody string, agentID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	now := time.Now().UTC()
	account.Role = models.RoleClient
	account.CreatedAt = now

	var accountID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO accounts (email, password_hash, first_name, last_name, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		account.Email, account.PasswordHash, account.FirstName, account.LastName,
		account.Phone, account.Role, account.CreatedAt).Scan(&accountID)

	if err != nil {
		err = mapUniqueViolation(err)
		return 0, err
	}
	account.ID = accountID

	if noteBody != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO client_notes (client_account_id, agent_id, body, created_at)
			VALUES ($1, $2, $3, $4)`,
			accountID, agentID, noteBody, now)
		if err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = mapUniqueViolation(err)
		return 0, err
	}

	return accountID, nil
}

// Viewing repository methods

func (r *PostgresRepository) IsListingAgent(ctx context.Context, propertyID, agentID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM property_listings WHERE property_id = $1 AND agent_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, propertyID, agentID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// CreateViewing inserts a single viewing row. The client reference is
// bound as a nullable parameter on every path; an absent client is an SQL
// NULL, never a placeholder identifier.
func (r *PostgresRepository) CreateViewing(ctx context.Context, viewing *models.PropertyViewing) (int64, error) {
	viewing.CreatedAt = time.Now().UTC()

	var viewingID int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO property_viewings (property_id, agent_id, client_account_id, scheduled_at, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		viewing.PropertyID, viewing.AgentID, viewing.ClientAccountID,
		viewing.ScheduledAt, viewing.Status, viewing.Notes, viewing.CreatedAt).Scan(&viewingID)

	if err != nil {
		return 0, err
	}

	viewing.ID = viewingID
	return viewingID, nil
}

// List pages

func (r *PostgresRepository) ListClients(ctx context.Context) ([]models.Account, error) {
	query := `SELECT * FROM accounts WHERE role = $1 ORDER BY last_name, first_name`

	var clients []models.Account
	err := r.db.SelectContext(ctx, &clients, query, models.RoleClient)
	if err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *PostgresRepository) ListPropertiesForAgent(ctx context.Context, agentID int64) ([]models.Property, error) {
	query := `
		SELECT p.* FROM properties p
		JOIN property_listings pl ON p.id = pl.property_id
		WHERE pl.agent_id = $1
		ORDER BY pl.listed_at DESC
	`

	var properties []models.Property
	err := r.db.SelectContext(ctx, &properties, query, agentID)
	if err != nil {
		return nil, err
	}

	return properties, nil
}

func (r *PostgresRepository) ListViewingsForAgent(ctx context.Context, agentID int64) ([]models.ViewingRow, error) {
	query := `
		SELECT v.id, p.title AS property_title, v.scheduled_at, v.status, v.notes,
		       CASE WHEN a.id IS NULL THEN NULL
		            ELSE a.first_name || ' ' || a.last_name END AS client_name
		FROM property_viewings v
		JOIN properties p ON p.id = v.property_id
		LEFT JOIN accounts a ON a.id = v.client_account_id
		WHERE v.agent_id = $1
		ORDER BY v.scheduled_at DESC
	`

	var viewings []models.ViewingRow
	err := r.db.SelectContext(ctx, &viewings, query, agentID)
	if err != nil {
		return nil, err
	}

	return viewings, nil
}

func (r *PostgresRepository) ListInquiriesForAgent(ctx context.Context, agentID int64) ([]models.InquiryRow, error) {
	query := `
		SELECT i.id, p.title AS property_title, i.sender_name, i.sender_email, i.message, i.created_at
		FROM inquiries i
		JOIN properties p ON p.id = i.property_id
		JOIN property_listings pl ON pl.property_id = i.property_id
		WHERE pl.agent_id = $1
		ORDER BY i.created_at DESC
	`

	var inquiries []models.InquiryRow
	err := r.db.SelectContext(ctx, &inquiries, query, agentID)
	if err != nil {
		return nil, err
	}

	return inquiries, nil
}

// mapUniqueViolation converts a Postgres unique_violation into
// ErrDuplicateEmail so callers can treat a lost insert race as a normal,
// reportable failure.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
