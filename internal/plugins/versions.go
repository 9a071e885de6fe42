package plugins

import (
	"strconv"
	"strings"
)

// compareLoose orders version strings that are not both valid semver.
// Dotted components compare numerically when both sides are numeric,
// lexically otherwise; a missing component counts as zero.
func compareLoose(a, b string) int {
	partsA := strings.Split(strings.TrimPrefix(a, "v"), ".")
	partsB := strings.Split(strings.TrimPrefix(b, "v"), ".")

	maxLen := len(partsA)
	if len(partsB) > maxLen {
		maxLen = len(partsB)
	}

	for i := 0; i < maxLen; i++ {
		var pa, pb string
		if i < len(partsA) {
			pa = partsA[i]
		}
		if i < len(partsB) {
			pb = partsB[i]
		}
		if pa == pb {
			continue
		}

		na, errA := strconv.Atoi(pa)
		nb, errB := strconv.Atoi(pb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				if na > nb {
					return 1
				}
				return -1
			}
		case errA == nil:
			// A numeric component beats a missing one (zero ties),
			// but loses to a textual one ("beta" > "2").
			if pb == "" {
				if na == 0 {
					continue
				}
				return 1
			}
			return -1
		case errB == nil:
			if pa == "" {
				if nb == 0 {
					continue
				}
				return -1
			}
			return 1
		default:
			if pa > pb {
				return 1
			}
			return -1
		}
	}
	return 0
}
