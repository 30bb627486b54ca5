package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ztrustlabs/go-inspector-client/apierr"
	"github.com/ztrustlabs/go-inspector-client/events"
	"github.com/ztrustlabs/go-inspector-client/guard"
)

func TestScanRejectsScriptInjection(t *testing.T) {
	recorder := events.NewMemoryRecorder()
	g := guard.New(recorder)

	err := g.Scan(`<script>alert(1)</script>`)

	require.Error(t, err)
	require.True(t, apierr.IsKind(err, apierr.KindInputRejected))
	require.Equal(t, 1, recorder.CountOf(events.TypeSuspiciousInput))
}

func TestScanReportsFirstMatchingPattern(t *testing.T) {
	recorder := events.NewMemoryRecorder()
	g := guard.New(recorder)

	// Contains both an alert call and a script tag; alert_call is first.
	require.Error(t, g.Scan(`<script>alert(document.cookie)</script>`))

	got := recorder.Events()
	require.Len(t, got, 1)
	require.Equal(t, "alert_call", got[0].Detail["pattern"])
}

func TestScanRejectsSQLPatterns(t *testing.T) {
	g := guard.New(events.NewMemoryRecorder())

	cases := []string{
		"please DROP TABLE users",
		"x' OR 1=1 --",
		"x' and 0=1",
	}
	for _, input := range cases {
		require.Error(t, g.Scan(input), "input %q should be rejected", input)
	}
}

func TestScanPassesLegitimateContent(t *testing.T) {
	recorder := events.NewMemoryRecorder()
	g := guard.New(recorder)

	inputs := []string{
		"Dear customer, your invoice is attached.",
		"Meeting moved to 3pm, see the updated script attached as PDF.",
		"Tables and orders for the event are confirmed.",
	}
	for _, input := range inputs {
		require.NoError(t, g.Scan(input), "input %q should pass", input)
	}
	require.Empty(t, recorder.Events())
}
