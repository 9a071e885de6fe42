package updates

import (
	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/settings"
)

// EvaluateOptions carries the local side of a platform check.
type EvaluateOptions struct {
	// Build is the locally installed build number.
	Build build.Number

	// ProductCode restricts evaluation to channels of one product.
	// Empty matches every product in the descriptor.
	ProductCode string

	// Preference bounds which channel statuses are eligible.
	Preference settings.ChannelStatus

	// SelectedChannel pins the user's own channel by id. When empty,
	// the channel whose status matches the preference and that offers
	// the newest build is treated as the user's own.
	SelectedChannel string
}

// Evaluate decides what the descriptor offers relative to the local
// build. It never performs I/O; fetch failures are handled by the
// caller and classified as ConnectionError there.
//
// Classification:
//   - UpdatedChannel: the user's own channel carries a build strictly
//     newer than the local one.
//   - NewChannel: a different eligible channel carries a build strictly
//     newer than both the local build and anything the user's own
//     channel offers.
//   - Neither set: nothing newer.
func Evaluate(doc *Document, opts EvaluateOptions) CheckResult {
	channels := doc.ChannelsFor(opts.ProductCode)

	var eligible []Channel
	for _, c := range channels {
		if opts.Preference.Allows(c.Status) {
			eligible = append(eligible, c)
		}
	}

	own := selectOwnChannel(eligible, opts)

	result := CheckResult{State: Loaded}

	// A newer build within the user's own channel.
	ownCeiling := opts.Build
	if own != nil {
		if latest := own.Latest(); latest != nil && opts.Build.Less(latest.Number) {
			c := *own
			result.UpdatedChannel = &c
			ownCeiling = latest.Number
		}
	}

	// A different channel beating both the local build and whatever
	// the own channel offers.
	var best *Channel
	var bestNumber build.Number
	for i := range eligible {
		c := &eligible[i]
		if own != nil && c.ID == own.ID {
			continue
		}
		latest := c.Latest()
		if latest == nil {
			continue
		}
		if !ownCeiling.Less(latest.Number) {
			continue
		}
		if best == nil || bestNumber.Less(latest.Number) {
			best = c
			bestNumber = latest.Number
		}
	}
	if best != nil {
		c := *best
		result.NewChannel = &c
	}

	return result
}

// selectOwnChannel resolves the channel the local install tracks.
func selectOwnChannel(eligible []Channel, opts EvaluateOptions) *Channel {
	if opts.SelectedChannel != "" {
		for i := range eligible {
			if eligible[i].ID == opts.SelectedChannel {
				return &eligible[i]
			}
		}
		// The pinned channel is gone or no longer eligible; fall
		// through to status matching.
	}

	var own *Channel
	for i := range eligible {
		c := &eligible[i]
		if c.Status != opts.Preference {
			continue
		}
		if own == nil {
			own = c
			continue
		}
		ownLatest, cLatest := own.Latest(), c.Latest()
		if ownLatest == nil || (cLatest != nil && ownLatest.Number.Less(cLatest.Number)) {
			own = c
		}
	}
	return own
}
