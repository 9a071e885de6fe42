// Package notify maps a completed check cycle onto a user-facing
// action: a modal dialog for manual checks, a deduplicated
// notification for scheduled ones, or nothing at all.
package notify

import (
	"fmt"
	"strings"

	"github.com/orbit-updates/orbit/internal/external"
	"github.com/orbit-updates/orbit/internal/plugins"
	"github.com/orbit-updates/orbit/internal/updates"
)

// Category identifies one kind of notification. Each category fires
// at most once per process run until cleared on dismissal.
type Category int

const (
	// CategoryNewChannel announces a different channel with a newer build.
	CategoryNewChannel Category = iota
	// CategoryChannelUpdate announces a newer build in the user's channel.
	CategoryChannelUpdate
	// CategoryPluginUpdates announces available plugin updates.
	CategoryPluginUpdates
	// CategoryExternalUpdates announces updates from external sources.
	CategoryExternalUpdates
	// CategoryCheckFailed reports a failed manual check.
	CategoryCheckFailed
)

func (c Category) String() string {
	switch c {
	case CategoryNewChannel:
		return "new-channel"
	case CategoryChannelUpdate:
		return "channel-update"
	case CategoryPluginUpdates:
		return "plugin-updates"
	case CategoryExternalUpdates:
		return "external-updates"
	case CategoryCheckFailed:
		return "check-failed"
	default:
		return "unknown"
	}
}

// Trigger distinguishes how the check cycle was started.
type Trigger int

const (
	// TriggerScheduled is a background check on the configured interval.
	TriggerScheduled Trigger = iota
	// TriggerManual is a check the user asked for explicitly.
	TriggerManual
)

// Action is what the presenter decided to do for one category.
type Action int

const (
	// ActionNone means nothing is surfaced.
	ActionNone Action = iota
	// ActionNotify raises a non-modal notification.
	ActionNotify
	// ActionDialog opens a modal results dialog.
	ActionDialog
)

// Decision is one presenter output: the category, the surface to use
// and the prepared text.
type Decision struct {
	Category Category
	Action   Action
	Title    string
	Message  string
}

// Input is everything one check cycle produced.
type Input struct {
	Result        updates.CheckResult
	PluginUpdates []*plugins.Downloader
	External      []external.Update
	Trigger       Trigger
}

// Present maps the check outcome onto decisions. Manual checks get a
// modal dialog with the full result, including failures. Scheduled
// checks raise one notification per applicable category, skipping
// categories already shown this process run; a failed scheduled check
// stays silent and is only logged by the caller.
func Present(state *State, in Input) []Decision {
	if in.Trigger == TriggerManual {
		return presentDialog(state, in)
	}
	return presentNotifications(state, in)
}

func presentDialog(state *State, in Input) []Decision {
	if in.Result.State == updates.ConnectionError {
		return []Decision{{
			Category: CategoryCheckFailed,
			Action:   ActionDialog,
			Title:    "Update check failed",
			Message:  "Could not reach the update server. The check will be retried on the next cycle.",
		}}
	}

	var parts []string
	for _, c := range applicableCategories(in) {
		// The dialog already presents the category; a scheduled
		// check afterwards must not notify about it again.
		state.MarkShown(c)
		parts = append(parts, messageFor(c, in))
	}
	if len(parts) == 0 {
		return []Decision{{
			Category: CategoryChannelUpdate,
			Action:   ActionDialog,
			Title:    "You're up to date",
			Message:  "No updates are available for your channel or plugins.",
		}}
	}
	return []Decision{{
		Category: primaryCategory(in),
		Action:   ActionDialog,
		Title:    "Updates available",
		Message:  strings.Join(parts, "\n"),
	}}
}

func presentNotifications(state *State, in Input) []Decision {
	if in.Result.State == updates.ConnectionError {
		return nil
	}

	var decisions []Decision
	for _, c := range applicableCategories(in) {
		if !state.MarkShown(c) {
			continue
		}
		decisions = append(decisions, Decision{
			Category: c,
			Action:   ActionNotify,
			Title:    titleFor(c),
			Message:  messageFor(c, in),
		})
	}
	return decisions
}

// applicableCategories returns the categories this cycle has content
// for, in presentation order.
func applicableCategories(in Input) []Category {
	var out []Category
	if in.Result.State == updates.Loaded && in.Result.NewChannel != nil {
		out = append(out, CategoryNewChannel)
	}
	if in.Result.State == updates.Loaded && in.Result.UpdatedChannel != nil {
		out = append(out, CategoryChannelUpdate)
	}
	if len(in.PluginUpdates) > 0 {
		out = append(out, CategoryPluginUpdates)
	}
	if len(in.External) > 0 {
		out = append(out, CategoryExternalUpdates)
	}
	return out
}

func primaryCategory(in Input) Category {
	cats := applicableCategories(in)
	if len(cats) == 0 {
		return CategoryChannelUpdate
	}
	return cats[0]
}

func titleFor(c Category) string {
	switch c {
	case CategoryNewChannel:
		return "New update channel available"
	case CategoryChannelUpdate:
		return "Platform update available"
	case CategoryPluginUpdates:
		return "Plugin updates available"
	case CategoryExternalUpdates:
		return "Tool updates available"
	default:
		return "Updates"
	}
}

func messageFor(c Category, in Input) string {
	switch c {
	case CategoryNewChannel:
		ch := in.Result.NewChannel
		msg := fmt.Sprintf("Channel %s is available", ch.Name)
		if b := ch.Latest(); b != nil {
			msg = fmt.Sprintf("%s with build %s", msg, b.Number)
		}
		return msg + "."
	case CategoryChannelUpdate:
		ch := in.Result.UpdatedChannel
		if b := ch.Latest(); b != nil {
			return fmt.Sprintf("Build %s is available in %s.", b.Number, ch.Name)
		}
		return fmt.Sprintf("A new build is available in %s.", ch.Name)
	case CategoryPluginUpdates:
		if len(in.PluginUpdates) == 1 {
			p := in.PluginUpdates[0]
			name := p.Name
			if name == "" {
				name = p.ID
			}
			return fmt.Sprintf("Plugin %s %s is available.", name, p.Version)
		}
		return fmt.Sprintf("%d plugin updates are available.", len(in.PluginUpdates))
	case CategoryExternalUpdates:
		var names []string
		for _, u := range in.External {
			for _, comp := range u.Components {
				names = append(names, fmt.Sprintf("%s %s", comp.Name, comp.LatestVersion))
			}
		}
		return fmt.Sprintf("Updates available: %s.", strings.Join(names, ", "))
	default:
		return ""
	}
}
