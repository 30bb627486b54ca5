package prefs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ztrustlabs/go-inspector-client/prefs"
	"github.com/ztrustlabs/go-inspector-client/storage/storefakes"
)

func TestDisplayModeDefaultsToLight(t *testing.T) {
	p := prefs.New(storefakes.NewFakeKV())
	require.Equal(t, "light", p.DisplayMode())
}

func TestDisplayModeRoundTrip(t *testing.T) {
	kv := storefakes.NewFakeKV()
	p := prefs.New(kv)

	require.NoError(t, p.SetDisplayMode("dark"))
	require.Equal(t, "dark", p.DisplayMode())

	// Survives a fresh Prefs over the same storage.
	require.Equal(t, "dark", prefs.New(kv).DisplayMode())

	require.NoError(t, p.SetDisplayMode(""))
	require.Equal(t, "light", p.DisplayMode())
}
