package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCoverage(t *testing.T) {
	require.NoError(t, CheckCoverage())
}

func TestEveryActionHasBadge(t *testing.T) {
	for _, action := range Actions() {
		badge, ok := BadgeFor(action)
		require.True(t, ok, "no badge for %s", action)
		require.NotEmpty(t, badge.Color, "badge color for %s", action)
		require.NotEmpty(t, badge.Icon, "badge icon for %s", action)
		require.NotEmpty(t, badge.Label, "badge label for %s", action)
	}
}

func TestShapeTablesPartitionTheEnum(t *testing.T) {
	for _, action := range Actions() {
		_, typed := detailShapes[action]
		_, null := nullDetailActions[action]
		require.True(t, typed != null, "action %s must be exactly one of typed or null", action)
	}
	require.Len(t, Actions(), len(detailShapes)+len(nullDetailActions))
}

func TestValidRejectsUnknownAction(t *testing.T) {
	require.False(t, Action("NOT_A_THING").Valid())
	require.True(t, ActionCreateCase.Valid())
	require.True(t, ActionLogout.Valid())
}

func TestRequiresSessionExemptsLoginEventsOnly(t *testing.T) {
	for _, action := range Actions() {
		expected := action != ActionLoginSuccess && action != ActionLoginFailed
		require.Equal(t, expected, action.RequiresSession(), "action %s", action)
	}
}
