package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/courtdesk/registry-api/internal/models"
)

func validRow() models.AuditLog {
	userID := "3f6c0e1a-0b8e-4c8e-9f6d-1f2a3b4c5d6e"
	return models.AuditLog{
		ID:        42,
		UserID:    &userID,
		IPAddress: "10.0.0.5",
		UserAgent: "registry-test",
		Action:    string(ActionCreateCase),
		Details:   datatypes.JSON(`{"id":7}`),
		CreatedAt: time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestParseRecordHappyPath(t *testing.T) {
	row := validRow()
	row.User = &models.User{
		ID:    *row.UserID,
		Name:  "Dana Reyes",
		Email: "dana@court.example",
		Role:  models.RoleRegistrar,
	}

	record, err := ParseRecord(row)
	require.NoError(t, err)
	require.Equal(t, uint(42), record.ID)
	require.Equal(t, ActionCreateCase, record.Action)
	require.Equal(t, &EntityDetails{ID: 7}, record.Details)
	require.NotNil(t, record.User)
	require.Equal(t, "Dana Reyes", record.User.Name)
	require.Equal(t, models.RoleRegistrar, record.User.Role)
}

func TestParseRecordWithoutUser(t *testing.T) {
	row := validRow()
	row.UserID = nil
	row.Action = string(ActionLoginFailed)
	row.Details = datatypes.JSON(`{"email":"clerk@court.example"}`)

	record, err := ParseRecord(row)
	require.NoError(t, err)
	require.Nil(t, record.UserID)
	require.Nil(t, record.User)
	require.Equal(t, &EmailDetails{Email: "clerk@court.example"}, record.Details)
}

func TestParseRecordRejectsMissingID(t *testing.T) {
	row := validRow()
	row.ID = 0
	_, err := ParseRecord(row)
	require.Error(t, err)
}

func TestParseRecordRejectsZeroTimestamp(t *testing.T) {
	row := validRow()
	row.CreatedAt = time.Time{}
	_, err := ParseRecord(row)
	require.Error(t, err)
}

func TestParseRecordRejectsUnknownAction(t *testing.T) {
	row := validRow()
	row.Action = "RETIRED_ACTION"
	_, err := ParseRecord(row)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown action")
}

func TestParseRecordRejectsCorruptDetails(t *testing.T) {
	row := validRow()
	row.Details = datatypes.JSON(`{"id":0}`)
	_, err := ParseRecord(row)
	require.Error(t, err)
}

func TestParseRecordRejectsEmptyUserReference(t *testing.T) {
	row := validRow()
	empty := "  "
	row.UserID = &empty
	_, err := ParseRecord(row)
	require.Error(t, err)
}
