// Package prefs persists presentation preferences over the same durable
// capability as the rest of the client state. Preferences survive logout.
package prefs

import (
	"github.com/pkg/errors"

	"github.com/ztrustlabs/go-inspector-client/storage"
)

const keyDisplayMode = "display_mode"

// DefaultDisplayMode is used until the user picks one.
const DefaultDisplayMode = "light"

// Prefs reads and writes user preferences.
type Prefs struct {
	kv storage.KV
}

// New creates a Prefs over the given KV.
func New(kv storage.KV) *Prefs {
	return &Prefs{kv: kv}
}

// DisplayMode returns the persisted display mode, or the default.
func (p *Prefs) DisplayMode() string {
	mode, ok, err := p.kv.Get(keyDisplayMode)
	if err != nil || !ok || mode == "" {
		return DefaultDisplayMode
	}
	return mode
}

// SetDisplayMode persists the display mode.
func (p *Prefs) SetDisplayMode(mode string) error {
	if mode == "" {
		return errors.Wrap(p.kv.Delete(keyDisplayMode), "[Prefs.SetDisplayMode] delete")
	}
	return errors.Wrap(p.kv.Set(keyDisplayMode, mode), "[Prefs.SetDisplayMode] set")
}
