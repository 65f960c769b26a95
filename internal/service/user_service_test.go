package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/audit"
	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/models"
	"github.com/courtdesk/registry-api/internal/repository"
)

func newUserFixture(t *testing.T) (UserService, *gorm.DB, *Actor) {
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
	service := NewUserService(repository.NewUserRepository(db), recorder, validate, zerolog.Nop())

	admin := models.User{Name: "Root Admin", Email: "admin@court.example", Role: models.RoleAdmin, Active: true}
	require.NoError(t, db.Create(&admin).Error)
	return service, db, &Actor{ID: admin.ID, Role: admin.Role}
}

func TestUserCreateStartsPasswordless(t *testing.T) {
	service, db, actor := newUserFixture(t)

	created, err := service.Create(context.Background(), actor, dto.CreateUserRequest{
		Name:  "Dana Reyes",
		Email: "Dana@Court.Example",
		Role:  models.RoleClerk,
	}, ClientInfo{})
	require.NoError(t, err)
	require.Equal(t, "dana@court.example", created.Email)
	require.True(t, created.MustSetPassword)
	require.True(t, created.Active)

	rows := auditRows(t, db, audit.ActionCreateUser)
	require.Len(t, rows, 1)
	require.JSONEq(t, `{"id":"`+created.ID+`"}`, string(rows[0].Details))
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	service, _, actor := newUserFixture(t)
	ctx := context.Background()

	req := dto.CreateUserRequest{Name: "Dana Reyes", Email: "dana@court.example", Role: models.RoleClerk}
	_, err := service.Create(ctx, actor, req, ClientInfo{})
	require.NoError(t, err)

	_, err = service.Create(ctx, actor, req, ClientInfo{})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	service, _, actor := newUserFixture(t)

	_, err := service.Create(context.Background(), actor, dto.CreateUserRequest{
		Name:  "Dana Reyes",
		Email: "dana@court.example",
		Role:  "superuser",
	}, ClientInfo{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown role")
}

func TestUserDeactivateReactivateAudited(t *testing.T) {
	service, db, actor := newUserFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, actor, dto.CreateUserRequest{
		Name: "Dana Reyes", Email: "dana@court.example", Role: models.RoleClerk,
	}, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, actor, created.ID, ClientInfo{}))
	account, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, account.Active)

	require.NoError(t, service.Reactivate(ctx, actor, created.ID, ClientInfo{}))
	account, err = service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, account.Active)

	require.Len(t, auditRows(t, db, audit.ActionDeactivateUser), 1)
	require.Len(t, auditRows(t, db, audit.ActionReactivateUser), 1)
}

func TestUserUpdateRoleRecordsTransition(t *testing.T) {
	service, db, actor := newUserFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, actor, dto.CreateUserRequest{
		Name: "Dana Reyes", Email: "dana@court.example", Role: models.RoleClerk,
	}, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, service.UpdateRole(ctx, actor, created.ID, dto.UpdateRoleRequest{Role: models.RoleRegistrar}, ClientInfo{}))

	rows := auditRows(t, db, audit.ActionUpdateRole)
	require.Len(t, rows, 1)
	record, err := audit.ParseRecord(rows[0])
	require.NoError(t, err)
	require.Equal(t, &audit.RoleChangeDetails{
		UserID: created.ID,
		From:   models.RoleClerk,
		To:     models.RoleRegistrar,
	}, record.Details)
}

func TestUserUpdateRoleNoOpSkipsAudit(t *testing.T) {
	service, db, actor := newUserFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, actor, dto.CreateUserRequest{
		Name: "Dana Reyes", Email: "dana@court.example", Role: models.RoleClerk,
	}, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, service.UpdateRole(ctx, actor, created.ID, dto.UpdateRoleRequest{Role: models.RoleClerk}, ClientInfo{}))
	require.Empty(t, auditRows(t, db, audit.ActionUpdateRole))
}

func TestUserDeleteIsSoftAndAudited(t *testing.T) {
	service, db, actor := newUserFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, actor, dto.CreateUserRequest{
		Name: "Dana Reyes", Email: "dana@court.example", Role: models.RoleClerk,
	}, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, actor, created.ID, ClientInfo{}))

	_, err = service.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Soft delete: the row survives for the audit trail's weak reference.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Where("id = ?", created.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.Len(t, auditRows(t, db, audit.ActionDeleteUser), 1)
}

func TestUserUpdateProfileTargetsActor(t *testing.T) {
	service, db, actor := newUserFixture(t)
	ctx := context.Background()

	name := "Rooted Admin"
	updated, err := service.UpdateProfile(ctx, actor, dto.UpdateProfileRequest{Name: &name}, ClientInfo{})
	require.NoError(t, err)
	require.Equal(t, "Rooted Admin", updated.Name)
	require.Equal(t, actor.ID, updated.ID)

	require.Len(t, auditRows(t, db, audit.ActionUpdateProfile), 1)

	_, err = service.UpdateProfile(ctx, nil, dto.UpdateProfileRequest{Name: &name}, ClientInfo{})
	require.ErrorIs(t, err, ErrUnauthorized)
}
