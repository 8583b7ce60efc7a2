package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenrealty/agentdesk/internal/models"
)

// fakeAccounts is an AccountLookup backed by a map keyed on lower-cased email.
type fakeAccounts struct {
	byEmail map[string]*models.Account
	err     error
	calls   int
}

func (f *fakeAccounts) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

type fakeClients struct {
	byID map[int64]*models.Account
	err  error
}

func (f *fakeClients) GetClientByID(_ context.Context, id int64) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func validClientForm() models.ClientCreationForm {
	return models.ClientCreationForm{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@x.com",
		Phone:           "041 555 0199",
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
		Notes:           "Looking for 3BR",
	}
}

func TestValidateClientCreation_EmptyFormCollectsAllErrors(t *testing.T) {
	accounts := &fakeAccounts{}

	_, errs, err := ValidateClientCreation(context.Background(), models.ClientCreationForm{}, accounts)

	require.NoError(t, err)
	assert.Equal(t, ErrorList{
		"First name is required.",
		"Last name is required.",
		"Email is required.",
		"Password is required.",
	}, errs)
	assert.Equal(t, 0, accounts.calls, "no uniqueness lookup for a missing email")
}

func TestValidateClientCreation_InvalidEmailSkipsLookup(t *testing.T) {
	accounts := &fakeAccounts{}
	form := validClientForm()
	form.Email = "not-an-email"

	_, errs, err := ValidateClientCreation(context.Background(), form, accounts)

	require.NoError(t, err)
	assert.Equal(t, ErrorList{"Email address is not valid."}, errs)
	assert.Equal(t, 0, accounts.calls)
}

func TestValidateClientCreation_DuplicateEmail(t *testing.T) {
	accounts := &fakeAccounts{byEmail: map[string]*models.Account{
		"jane@x.com": {ID: 3, Email: "jane@x.com"},
	}}

	_, errs, err := ValidateClientCreation(context.Background(), validClientForm(), accounts)

	require.NoError(t, err)
	assert.Equal(t, ErrorList{"An account with this email already exists."}, errs)
}

func TestValidateClientCreation_PasswordRulesInOrder(t *testing.T) {
	form := validClientForm()
	form.Password = "short"
	form.ConfirmPassword = "different"

	_, errs, err := ValidateClientCreation(context.Background(), form, &fakeAccounts{})

	require.NoError(t, err)
	assert.Equal(t, ErrorList{
		"Password must be at least 8 characters.",
		"Passwords do not match.",
	}, errs)
}

func TestValidateClientCreation_Success(t *testing.T) {
	form := validClientForm()
	form.FirstName = "  Jane "
	form.Email = " jane@x.com "

	cmd, errs, err := ValidateClientCreation(context.Background(), form, &fakeAccounts{})

	require.NoError(t, err)
	require.False(t, errs.HasErrors())
	assert.Equal(t, "Jane", cmd.FirstName)
	assert.Equal(t, "jane@x.com", cmd.Email)
	assert.Equal(t, "041 555 0199", cmd.Phone)
	assert.Equal(t, "Looking for 3BR", cmd.Notes)
	assert.Equal(t, "longenough1", cmd.Password)
}

func TestValidateClientCreation_OptionalFieldsMayBeEmpty(t *testing.T) {
	form := validClientForm()
	form.Phone = ""
	form.Notes = "   "

	cmd, errs, err := ValidateClientCreation(context.Background(), form, &fakeAccounts{})

	require.NoError(t, err)
	require.False(t, errs.HasErrors())
	assert.Empty(t, cmd.Phone)
	assert.Empty(t, cmd.Notes)
}

func TestValidateClientCreation_LookupFailurePropagates(t *testing.T) {
	accounts := &fakeAccounts{err: errors.New("connection refused")}

	_, _, err := ValidateClientCreation(context.Background(), validClientForm(), accounts)

	require.Error(t, err)
}

func TestValidateViewingScheduling_EmptyFormCollectsAllErrors(t *testing.T) {
	_, errs, err := ValidateViewingScheduling(context.Background(), models.ViewingForm{}, &fakeClients{})

	require.NoError(t, err)
	assert.Equal(t, ErrorList{
		"Please select a property.",
		"Viewing date is required.",
		"Viewing time is required.",
	}, errs)
}

func TestValidateViewingScheduling_BadPropertyID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3"} {
		form := models.ViewingForm{PropertyID: raw, ViewingDate: "2025-05-01", ViewingTime: "10:00"}

		_, errs, err := ValidateViewingScheduling(context.Background(), form, &fakeClients{})

		require.NoError(t, err)
		assert.Equal(t, ErrorList{"Please select a property."}, errs, "property_id=%q", raw)
	}
}

func TestValidateViewingScheduling_RejectsHalfParsedDateTime(t *testing.T) {
	form := models.ViewingForm{PropertyID: "7", ViewingDate: "05/01/2025", ViewingTime: "10:00"}

	_, errs, err := ValidateViewingScheduling(context.Background(), form, &fakeClients{})

	require.NoError(t, err)
	assert.Equal(t, ErrorList{"Viewing date is not a valid date."}, errs)
}

func TestValidateViewingScheduling_NoClientYieldsNullReference(t *testing.T) {
	form := models.ViewingForm{PropertyID: "7", ViewingDate: "2025-05-01", ViewingTime: "10:00", ClientID: ""}

	cmd, errs, err := ValidateViewingScheduling(context.Background(), form, &fakeClients{})

	require.NoError(t, err)
	require.False(t, errs.HasErrors())
	assert.False(t, cmd.ClientID.Valid)
	assert.Equal(t, int64(7), cmd.PropertyID)
	assert.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local), cmd.ScheduledAt)
}

func TestValidateViewingScheduling_ClientReference(t *testing.T) {
	clients := &fakeClients{byID: map[int64]*models.Account{
		12: {ID: 12, Role: models.RoleClient},
	}}

	t.Run("existing client", func(t *testing.T) {
		form := models.ViewingForm{PropertyID: "7", ClientID: "12", ViewingDate: "2025-05-01", ViewingTime: "10:00"}

		cmd, errs, err := ValidateViewingScheduling(context.Background(), form, clients)

		require.NoError(t, err)
		require.False(t, errs.HasErrors())
		assert.True(t, cmd.ClientID.Valid)
		assert.Equal(t, int64(12), cmd.ClientID.Int64)
	})

	t.Run("unknown client", func(t *testing.T) {
		form := models.ViewingForm{PropertyID: "7", ClientID: "99", ViewingDate: "2025-05-01", ViewingTime: "10:00"}

		_, errs, err := ValidateViewingScheduling(context.Background(), form, clients)

		require.NoError(t, err)
		assert.Equal(t, ErrorList{"Selected client does not exist."}, errs)
	})

	t.Run("malformed client id", func(t *testing.T) {
		form := models.ViewingForm{PropertyID: "7", ClientID: "abc", ViewingDate: "2025-05-01", ViewingTime: "10:00"}

		_, errs, err := ValidateViewingScheduling(context.Background(), form, clients)

		require.NoError(t, err)
		assert.Equal(t, ErrorList{"Selected client is not valid."}, errs)
	})
}
