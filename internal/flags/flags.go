// Package flags gates opt-in editor features named in the config file.
package flags

import (
	"maps"
	"slices"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
)

const (
	// PrettifyOnSave formats the buffer before it is written to its file.
	PrettifyOnSave = "prettify-on-save"

	// WatchFile reloads the buffer when its file changes on disk and there
	// are no unsaved edits.
	WatchFile = "watch-file"
)

// Known lists every flag name the editor reads.
var Known = []string{PrettifyOnSave, WatchFile}

// Registry is the read-only flag state. A nil Registry has every flag off.
type Registry struct {
	flags map[string]bool
}

// New copies flags into a Registry and logs names the editor does not know.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(flags)}
	if r.flags == nil {
		r.flags = map[string]bool{}
	}
	if unknown := r.Unknown(); len(unknown) > 0 {
		log.Warn(log.CatConfig, "Ignoring unknown feature flags", "flags", unknown)
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "flags", r.All())
	return r
}

// Enabled reports whether name is set to true.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of the configured flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Unknown returns configured names missing from Known, sorted.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	var unknown []string
	for name := range r.flags {
		if !slices.Contains(Known, name) {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}
