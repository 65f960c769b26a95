package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/repository"
)

func newReceivingLogFixture(t *testing.T) ReceivingLogService {
	t.Helper()
	db := openTestDB(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewReceivingLogService(repository.NewReceivingLogRepository(db), validate, zerolog.Nop())
}

func TestReceivingLogSequencesPerYear(t *testing.T) {
	service := newReceivingLogFixture(t)
	ctx := context.Background()

	first, err := service.Create(ctx, dto.CreateReceivingLogRequest{
		Sender:     "District Attorney",
		ReceivedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Sequence)
	require.Equal(t, 2026, first.Year)

	second, err := service.Create(ctx, dto.CreateReceivingLogRequest{
		Sender:     "Public Defender",
		ReceivedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, second.Sequence)

	// A new year restarts the counter.
	nextYear, err := service.Create(ctx, dto.CreateReceivingLogRequest{
		Sender:     "District Attorney",
		ReceivedAt: time.Date(2027, 1, 5, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, nextYear.Sequence)
	require.Equal(t, 2027, nextYear.Year)
}

func TestReceivingLogUpdateKeepsSequence(t *testing.T) {
	service := newReceivingLogFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, dto.CreateReceivingLogRequest{
		Sender:     "District Attorney",
		CaseNumber: "CR-2026-0001",
		ReceivedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	sender := "County Sheriff"
	updated, err := service.Update(ctx, created.ID, dto.UpdateReceivingLogRequest{Sender: &sender})
	require.NoError(t, err)
	require.Equal(t, "County Sheriff", updated.Sender)
	require.Equal(t, created.Sequence, updated.Sequence)
	require.Equal(t, created.Year, updated.Year)
}

func TestReceivingLogListFiltersByYear(t *testing.T) {
	service := newReceivingLogFixture(t)
	ctx := context.Background()

	for _, year := range []int{2025, 2026, 2026} {
		_, err := service.Create(ctx, dto.CreateReceivingLogRequest{
			Sender:     "District Attorney",
			ReceivedAt: time.Date(year, 6, 1, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	response, err := service.List(ctx, dto.ReceivingLogListRequest{Year: 2026})
	require.NoError(t, err)
	require.Len(t, response.Items, 2)
	require.EqualValues(t, 2, response.Pagination.TotalItems)
}

func TestReceivingLogDeleteUnknownIDReturnsNotFound(t *testing.T) {
	service := newReceivingLogFixture(t)
	require.ErrorIs(t, service.Delete(context.Background(), 999), ErrNotFound)
}
