package telemetry

import (
	"runtime"

	"github.com/orbit-updates/orbit/internal/buildinfo"
)

// Event is one completed check cycle, reduced to coarse anonymous
// counters. No build numbers, plugin ids, or hostnames are included.
type Event struct {
	Trigger            string `json:"trigger"`              // "scheduled" or "manual"
	State              string `json:"state"`                // check result state
	ChannelUpdate      bool   `json:"channel_update"`       // newer build in own channel
	NewChannel         bool   `json:"new_channel"`          // different channel proposed
	PluginUpdates      int    `json:"plugin_updates"`       // count of queued plugin updates
	IncompatiblePlugin int    `json:"incompatible_plugins"` // count of incompatible plugins
	ExternalUpdates    int    `json:"external_updates"`     // count of external component updates
	OS                 string `json:"os"`
	Arch               string `json:"arch"`
	OrbitVersion       string `json:"orbit_version"`
	SchemaVersion      string `json:"schema_version"`
}

const schemaVersion = "1"

// NewCheckEvent creates the event for one finished check cycle.
func NewCheckEvent(trigger, state string, channelUpdate, newChannel bool, pluginUpdates, incompatible, external int) Event {
	return Event{
		Trigger:            trigger,
		State:              state,
		ChannelUpdate:      channelUpdate,
		NewChannel:         newChannel,
		PluginUpdates:      pluginUpdates,
		IncompatiblePlugin: incompatible,
		ExternalUpdates:    external,
		OS:                 runtime.GOOS,
		Arch:               runtime.GOARCH,
		OrbitVersion:       buildinfo.Version(),
		SchemaVersion:      schemaVersion,
	}
}
