package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/repository"
)

func dtoLogin(email, password string) dto.LoginRequest {
	return dto.LoginRequest{Email: email, Password: password}
}

func dtoChangePassword(current, next string) dto.ChangePasswordRequest {
	return dto.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
}

func dtoMagicLink(email string) dto.MagicLinkRequest {
	return dto.MagicLinkRequest{Email: email}
}

func dtoSetPassword(token, password string) dto.SetPasswordRequest {
	return dto.SetPasswordRequest{Token: token, Password: password}
}

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)

	recorder := NewAuditService(
		repository.NewAuditLogRepository(db),
		repository.NewUserRepository(db),
		repository.NewCaseRepository(db),
		repository.NewEmployeeRepository(db),
		zerolog.Nop(),
	)
	validate := validator.New(validator.WithRequiredStructEnabled())
	service := NewAuthService(repository.NewUserRepository(db), recorder, validate, "test-secret", time.Hour, time.Hour, zerolog.Nop())
	return service, db
}

func seedAccount(t *testing.T, db *gorm.DB, email, password string, active bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Dana Reyes",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleRegistrar,
		Active:       active,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func auditRows(t *testing.T, db *gorm.DB, action audit.Action) []models.AuditLog {
	t.Helper()
	var rows []models.AuditLog
	require.NoError(t, db.Where("action = ?", string(action)).Find(&rows).Error)
	return rows
}

func TestLoginSuccessIssuesTokenAndAudits(t *testing.T) {
	service, db := newAuthFixture(t)
	user := seedAccount(t, db, "dana@court.example", "registry-pass", true)

	response, err := service.Login(context.Background(), dtoLogin("dana@court.example", "registry-pass"), ClientInfo{IP: "10.0.0.5"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Equal(t, user.ID, response.User.ID)

	rows := auditRows(t, db, audit.ActionLoginSuccess)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserID)
	require.Equal(t, user.ID, *rows[0].UserID)
	require.Equal(t, "10.0.0.5", rows[0].IPAddress)
}

func TestLoginWrongPasswordRecordsFailureWithNullActor(t *testing.T) {
	service, db := newAuthFixture(t)
	seedAccount(t, db, "dana@court.example", "registry-pass", true)

	_, err := service.Login(context.Background(), dtoLogin("dana@court.example", "wrong"), ClientInfo{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	rows := auditRows(t, db, audit.ActionLoginFailed)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].UserID)
	require.JSONEq(t, `{"email":"dana@court.example"}`, string(rows[0].Details))
}

func TestLoginUnknownEmailRecordsFailure(t *testing.T) {
	service, db := newAuthFixture(t)

	_, err := service.Login(context.Background(), dtoLogin("ghost@court.example", "whatever"), ClientInfo{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	rows := auditRows(t, db, audit.ActionLoginFailed)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].UserID)
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	service, db := newAuthFixture(t)
	seeded := seedAccount(t, db, "dana@court.example", "registry-pass", false)

	// The deactivated flag must survive the insert, not be flipped by a
	// column default.
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", seeded.ID).Error)
	require.False(t, stored.Active)

	_, err := service.Login(context.Background(), dtoLogin("dana@court.example", "registry-pass"), ClientInfo{})
	require.ErrorIs(t, err, ErrAccountInactive)
	require.Len(t, auditRows(t, db, audit.ActionLoginFailed), 1)
	require.Empty(t, auditRows(t, db, audit.ActionLoginSuccess))
}

func TestLoginEmailMatchIsCaseInsensitive(t *testing.T) {
	service, db := newAuthFixture(t)
	seedAccount(t, db, "dana@court.example", "registry-pass", true)

	_, err := service.Login(context.Background(), dtoLogin("DANA@Court.Example", "registry-pass"), ClientInfo{})
	require.NoError(t, err)
}

func TestLogoutRecordsNullDetailEntry(t *testing.T) {
	service, db := newAuthFixture(t)
	user := seedAccount(t, db, "dana@court.example", "registry-pass", true)
	actor := &Actor{ID: user.ID, Role: user.Role}

	require.NoError(t, service.Logout(context.Background(), actor, ClientInfo{}))

	rows := auditRows(t, db, audit.ActionLogout)
	require.Len(t, rows, 1)
	require.Equal(t, "null", string(rows[0].Details))
}

func TestLogoutWithoutSessionRejected(t *testing.T) {
	service, _ := newAuthFixture(t)
	require.ErrorIs(t, service.Logout(context.Background(), nil, ClientInfo{}), ErrUnauthorized)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	service, db := newAuthFixture(t)
	user := seedAccount(t, db, "dana@court.example", "registry-pass", true)
	actor := &Actor{ID: user.ID, Role: user.Role}
	ctx := context.Background()

	err := service.ChangePassword(ctx, actor, dtoChangePassword("wrong", "fresh-password"), ClientInfo{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, service.ChangePassword(ctx, actor, dtoChangePassword("registry-pass", "fresh-password"), ClientInfo{}))
	require.Len(t, auditRows(t, db, audit.ActionChangePassword), 1)

	_, err = service.Login(ctx, dtoLogin("dana@court.example", "fresh-password"), ClientInfo{})
	require.NoError(t, err)
}

func TestMagicLinkFlowSetsPassword(t *testing.T) {
	service, db := newAuthFixture(t)
	admin := seedAccount(t, db, "admin@court.example", "admin-pass", true)
	target := seedAccount(t, db, "clerk@court.example", "old-pass", true)
	actor := &Actor{ID: admin.ID, Role: models.RoleAdmin}
	ctx := context.Background()

	token, err := service.SendMagicLink(ctx, actor, dtoMagicLink("clerk@court.example"), ClientInfo{})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Len(t, auditRows(t, db, audit.ActionSendMagicLink), 1)

	require.NoError(t, service.SetInitialPassword(ctx, dtoSetPassword(token, "brand-new-pass"), ClientInfo{}))

	rows := auditRows(t, db, audit.ActionSetInitialPassword)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserID)
	require.Equal(t, target.ID, *rows[0].UserID)

	_, err = service.Login(ctx, dtoLogin("clerk@court.example", "brand-new-pass"), ClientInfo{})
	require.NoError(t, err)
}

func TestSetInitialPasswordRejectsExpiredToken(t *testing.T) {
	service, db := newAuthFixture(t)
	admin := seedAccount(t, db, "admin@court.example", "admin-pass", true)
	seedAccount(t, db, "clerk@court.example", "old-pass", true)
	actor := &Actor{ID: admin.ID, Role: models.RoleAdmin}
	ctx := context.Background()

	token, err := service.SendMagicLink(ctx, actor, dtoMagicLink("clerk@court.example"), ClientInfo{})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("reset_token = ?", token).Update("reset_expires_at", past).Error)

	err = service.SetInitialPassword(ctx, dtoSetPassword(token, "brand-new-pass"), ClientInfo{})
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetPasswordForcesPasswordChange(t *testing.T) {
	service, db := newAuthFixture(t)
	admin := seedAccount(t, db, "admin@court.example", "admin-pass", true)
	target := seedAccount(t, db, "clerk@court.example", "old-pass", true)
	actor := &Actor{ID: admin.ID, Role: models.RoleAdmin}

	token, err := service.ResetPassword(context.Background(), actor, target.ID, ClientInfo{})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", target.ID).Error)
	require.True(t, updated.MustSetPassword)
	require.Len(t, auditRows(t, db, audit.ActionResetPassword), 1)
}
