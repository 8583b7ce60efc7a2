// Package validation turns raw submitted form fields into validated
// commands. Every rule runs and every violation is collected, so the user
// sees the complete list in one round trip; nothing here writes to storage.
package validation

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/havenrealty/agentdesk/internal/models"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var validate = validator.New()

// ErrorList is an ordered collection of human-readable violations.
type ErrorList []string

// Add appends a violation message.
func (e *ErrorList) Add(msg string) {
	*e = append(*e, msg)
}

// HasErrors reports whether any violation was recorded.
func (e ErrorList) HasErrors() bool {
	return len(e) > 0
}

// AccountLookup resolves accounts by email for the uniqueness pre-check.
// A nil account with nil error means no such account exists.
type AccountLookup interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// ClientLookup resolves client accounts by id for the optional viewing
// attendee reference.
type ClientLookup interface {
	GetClientByID(ctx context.Context, id int64) (*models.Account, error)
}

// ClientCreationCommand holds the normalized fields of a valid client
// creation submission. The password is still plaintext here; hashing is
// the write coordinator's job.
type ClientCreationCommand struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string // optional, empty when not provided
	Password  string
	Notes     string // optional, empty when not provided
}

// ViewingCommand holds the resolved fields of a valid viewing submission.
type ViewingCommand struct {
	PropertyID  int64
	ClientID    sql.NullInt64 // invalid when no client was selected
	ScheduledAt time.Time
	Notes       string
}

// ValidateClientCreation normalizes and checks a client creation form.
// Violations are returned in a fixed order: first name, last name, email
// required, email format, email uniqueness, password required, password
// length, confirmation mismatch. The returned error is reserved for
// storage failures during the uniqueness lookup.
func ValidateClientCreation(ctx context.Context, form models.ClientCreationForm, accounts AccountLookup) (ClientCreationCommand, ErrorList, error) {
	var errs ErrorList

	firstName := strings.TrimSpace(form.FirstName)
	lastName := strings.TrimSpace(form.LastName)
	email := strings.TrimSpace(form.Email)
	phone := strings.TrimSpace(form.Phone)
	password := strings.TrimSpace(form.Password)
	confirm := strings.TrimSpace(form.ConfirmPassword)
	notes := strings.TrimSpace(form.Notes)

	if firstName == "" {
		errs.Add("First name is required.")
	}
	if lastName == "" {
		errs.Add("Last name is required.")
	}

	if email == "" {
		errs.Add("Email is required.")
	} else if validate.Var(email, "email") != nil {
		errs.Add("Email address is not valid.")
	} else {
		existing, err := accounts.GetAccountByEmail(ctx, email)
		if err != nil {
			return ClientCreationCommand{}, nil, fmt.Errorf("error checking email uniqueness: %w", err)
		}
		if existing != nil {
			errs.Add("An account with this email already exists.")
		}
	}

	if password == "" {
		errs.Add("Password is required.")
	} else {
		if len(password) < MinPasswordLength {
			errs.Add(fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
		}
		if password != confirm {
			errs.Add("Passwords do not match.")
		}
	}

	if errs.HasErrors() {
		return ClientCreationCommand{}, errs, nil
	}

	return ClientCreationCommand{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Password:  password,
		Notes:     notes,
	}, nil, nil
}

// ValidateViewingScheduling checks a viewing form. Violations are ordered
// property, date, time, then the optional client reference. Date and time
// are combined into one timestamp; if either half fails to parse the
// combination is rejected.
func ValidateViewingScheduling(ctx context.Context, form models.ViewingForm, clients ClientLookup) (ViewingCommand, ErrorList, error) {
	var errs ErrorList

	rawProperty := strings.TrimSpace(form.PropertyID)
	rawClient := strings.TrimSpace(form.ClientID)
	rawDate := strings.TrimSpace(form.ViewingDate)
	rawTime := strings.TrimSpace(form.ViewingTime)
	notes := strings.TrimSpace(form.Notes)

	propertyID, err := strconv.ParseInt(rawProperty, 10, 64)
	if rawProperty == "" || err != nil || propertyID <= 0 {
		errs.Add("Please select a property.")
	}

	var day, clock time.Time
	dayOK, clockOK := false, false
	if rawDate == "" {
		errs.Add("Viewing date is required.")
	} else if day, err = time.ParseInLocation("2006-01-02", rawDate, time.Local); err != nil {
		errs.Add("Viewing date is not a valid date.")
	} else {
		dayOK = true
	}
	if rawTime == "" {
		errs.Add("Viewing time is required.")
	} else if clock, err = time.ParseInLocation("15:04", rawTime, time.Local); err != nil {
		errs.Add("Viewing time is not a valid time.")
	} else {
		clockOK = true
	}

	clientID := sql.NullInt64{}
	if rawClient != "" {
		id, err := strconv.ParseInt(rawClient, 10, 64)
		if err != nil || id <= 0 {
			errs.Add("Selected client is not valid.")
		} else {
			client, err := clients.GetClientByID(ctx, id)
			if err != nil {
				return ViewingCommand{}, nil, fmt.Errorf("error looking up client: %w", err)
			}
			if client == nil {
				errs.Add("Selected client does not exist.")
			} else {
				clientID = sql.NullInt64{Int64: id, Valid: true}
			}
		}
	}

	if errs.HasErrors() || !dayOK || !clockOK {
		return ViewingCommand{}, errs, nil
	}

	scheduledAt := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local)

	return ViewingCommand{
		PropertyID:  propertyID,
		ClientID:    clientID,
		ScheduledAt: scheduledAt,
		Notes:       notes,
	}, nil, nil
}
