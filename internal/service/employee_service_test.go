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

func newEmployeeFixture(t *testing.T) (EmployeeService, *gorm.DB, *Actor) {
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
	service := NewEmployeeService(repository.NewEmployeeRepository(db), recorder, validate, zerolog.Nop())

	user := models.User{Name: "Root Admin", Email: "admin@court.example", Role: models.RoleAdmin, Active: true}
	require.NoError(t, db.Create(&user).Error)
	return service, db, &Actor{ID: user.ID, Role: user.Role}
}

func TestEmployeeCreateAudits(t *testing.T) {
	service, db, actor := newEmployeeFixture(t)

	created, err := service.Create(context.Background(), actor, dto.CreateEmployeeRequest{
		Name:       "Priya Nair",
		Position:   "Deputy Clerk",
		Department: "Records",
		Email:      "Priya@Court.Example",
	}, ClientInfo{})
	require.NoError(t, err)
	require.Equal(t, "priya@court.example", created.Email)

	rows := auditRows(t, db, audit.ActionCreateEmployee)
	require.Len(t, rows, 1)
	record, err := audit.ParseRecord(rows[0])
	require.NoError(t, err)
	require.Equal(t, &audit.EntityDetails{ID: created.ID}, record.Details)
}

func TestEmployeeUpdateAuditsSnapshotDiff(t *testing.T) {
	service, db, actor := newEmployeeFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, actor, dto.CreateEmployeeRequest{
		Name: "Priya Nair", Department: "Records",
	}, ClientInfo{})
	require.NoError(t, err)

	department := "Archives"
	_, err = service.Update(ctx, actor, created.ID, dto.UpdateEmployeeRequest{Department: &department}, ClientInfo{})
	require.NoError(t, err)

	rows := auditRows(t, db, audit.ActionUpdateEmployee)
	require.Len(t, rows, 1)
	record, err := audit.ParseRecord(rows[0])
	require.NoError(t, err)

	snapshot, ok := record.Details.(*audit.SnapshotDetails)
	require.True(t, ok)
	require.Equal(t, "Records", snapshot.From["department"])
	require.Equal(t, "Archives", snapshot.To["department"])
}

func TestEmployeeImportSkipsHeaderAndAudits(t *testing.T) {
	service, db, actor := newEmployeeFixture(t)
	ctx := context.Background()

	payload := []byte("name,position,department,email,phone,notes\n" +
		"Priya Nair,Deputy Clerk,Records,priya@court.example,555-0101,\n" +
		"Sam Okafor,Bailiff,Security,sam@court.example,,night shift\n")

	result, err := service.Import(ctx, actor, payload, ClientInfo{})
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)

	var count int64
	require.NoError(t, db.Model(&models.Employee{}).Count(&count).Error)
	require.EqualValues(t, 2, count)

	rows := auditRows(t, db, audit.ActionImportEmployees)
	require.Len(t, rows, 1)
	record, err := audit.ParseRecord(rows[0])
	require.NoError(t, err)
	details, ok := record.Details.(*audit.ImportDetails)
	require.True(t, ok)
	require.Equal(t, result.IDs, details.ImportedIDs)
}

func TestEmployeeImportRejectsBlankName(t *testing.T) {
	service, _, actor := newEmployeeFixture(t)

	payload := []byte("name,position\n,Deputy Clerk\n")
	_, err := service.Import(context.Background(), actor, payload, ClientInfo{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "name is required")
}

func TestEmployeeExportAuditsWithNullDetails(t *testing.T) {
	service, db, actor := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, actor, dto.CreateEmployeeRequest{Name: "Priya Nair"}, ClientInfo{})
	require.NoError(t, err)

	data, err := service.Export(ctx, actor, ClientInfo{})
	require.NoError(t, err)
	require.Contains(t, string(data), "Priya Nair")

	rows := auditRows(t, db, audit.ActionExportEmployees)
	require.Len(t, rows, 1)
	require.Equal(t, "null", string(rows[0].Details))
}
