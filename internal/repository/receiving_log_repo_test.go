package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/courtdesk/registry-api/internal/models"
)

func registerEntry(year int, sender string) *models.ReceivingLog {
	return &models.ReceivingLog{
		Year:       year,
		Sender:     sender,
		ReceivedAt: time.Date(year, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateWithSequenceNumbersPerYear(t *testing.T) {
	db := openTestDB(t)
	repo := NewReceivingLogRepository(db)
	ctx := context.Background()

	first := registerEntry(2026, "District Attorney")
	require.NoError(t, repo.CreateWithSequence(ctx, first))
	require.EqualValues(t, 1, first.Sequence)

	second := registerEntry(2026, "Public Defender")
	require.NoError(t, repo.CreateWithSequence(ctx, second))
	require.EqualValues(t, 2, second.Sequence)

	nextYear := registerEntry(2027, "Sheriff's Office")
	require.NoError(t, repo.CreateWithSequence(ctx, nextYear))
	require.EqualValues(t, 1, nextYear.Sequence)
}

func TestReceivingLogYearSequencePairIsUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewReceivingLogRepository(db)
	ctx := context.Background()

	entry := registerEntry(2026, "District Attorney")
	require.NoError(t, repo.CreateWithSequence(ctx, entry))

	dup := registerEntry(2026, "Public Defender")
	dup.Sequence = entry.Sequence
	err := db.WithContext(ctx).Create(dup).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateWithSequenceRecoversFromConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewReceivingLogRepository(db)
	ctx := context.Background()

	// A row inserted past the allocator, as a concurrent writer would leave
	// behind. The allocator must skip over it instead of colliding.
	squatter := registerEntry(2026, "Clerk of Court")
	squatter.Sequence = 1
	require.NoError(t, db.WithContext(ctx).Create(squatter).Error)

	entry := registerEntry(2026, "District Attorney")
	require.NoError(t, repo.CreateWithSequence(ctx, entry))
	require.EqualValues(t, 2, entry.Sequence)
}
