package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/courtdesk/registry-api/internal/models"
)

func seedCases(t *testing.T, repo CaseRepository) {
	t.Helper()
	ctx := context.Background()
	cases := []*models.Case{
		{Number: "CR-2026-0001", Title: "Estate of Marlowe", Petitioner: "R. Marlowe", CaseType: "probate", Status: models.CaseStatusOpen, FiledAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
		{Number: "CR-2026-0002", Title: "City v. Harding", Respondent: "D. Harding", CaseType: "criminal", Status: models.CaseStatusOpen, FiledAt: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{Number: "CV-2026-0003", Title: "Vickers v. Vickers", CaseType: "civil", Status: models.CaseStatusClosed, FiledAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, repo.CreateBatch(ctx, cases))
}

func TestCaseListSearchMatchesPartyNames(t *testing.T) {
	repo := NewCaseRepository(openTestDB(t))
	seedCases(t, repo)

	cases, total, err := repo.List(context.Background(), CaseFilter{Search: "harding"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, cases, 1)
	require.Equal(t, "CR-2026-0002", cases[0].Number)
}

func TestCaseListFiltersByStatusAndType(t *testing.T) {
	repo := NewCaseRepository(openTestDB(t))
	seedCases(t, repo)

	cases, total, err := repo.List(context.Background(), CaseFilter{Status: models.CaseStatusOpen, CaseType: "probate"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Estate of Marlowe", cases[0].Title)
}

func TestCaseListPaginatesNewestFilingFirst(t *testing.T) {
	repo := NewCaseRepository(openTestDB(t))
	seedCases(t, repo)

	cases, total, err := repo.List(context.Background(), CaseFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, cases, 2)
	require.Equal(t, "CV-2026-0003", cases[0].Number)

	rest, _, err := repo.List(context.Background(), CaseFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "CR-2026-0001", rest[0].Number)
}

func TestCaseCountByStatus(t *testing.T) {
	repo := NewCaseRepository(openTestDB(t))
	seedCases(t, repo)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, counts[models.CaseStatusOpen])
	require.EqualValues(t, 1, counts[models.CaseStatusClosed])
}
