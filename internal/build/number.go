// Package build implements dotted numeric build numbers.
//
// A build number identifies one build of the platform within a
// channel's sequence, for example "145.256.1" or "OB-145.256.1" with
// a product code prefix. Ordering is component-wise numeric, never
// lexical: 145 < 145.200 < 1021.2.
package build

import (
	"fmt"
	"strconv"
	"strings"
)

// Wildcard marks an open-ended component in a range bound, as in
// "145.*" which matches every build of the 145 line.
const Wildcard = -1

// Number is a parsed build number. The zero value is not valid;
// use Parse or MustParse.
type Number struct {
	// Product is the optional product code prefix ("OB" in
	// "OB-145.256.1"). It does not participate in ordering.
	Product string

	// Components holds the numeric components. A component may be
	// Wildcard in range bounds parsed from "145.*".
	Components []int
}

// Parse parses a build number string such as "145.256.1",
// "OB-145.256.1", or "145.*".
func Parse(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, fmt.Errorf("empty build number")
	}

	var product string
	if idx := strings.IndexByte(s, '-'); idx > 0 {
		product = s[:idx]
		s = s[idx+1:]
	}

	parts := strings.Split(s, ".")
	components := make([]int, 0, len(parts))
	for i, part := range parts {
		if part == "*" {
			// A wildcard swallows the rest of the number.
			if i != len(parts)-1 {
				return Number{}, fmt.Errorf("wildcard must be the last component in %q", s)
			}
			components = append(components, Wildcard)
			break
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Number{}, fmt.Errorf("invalid build number component %q in %q", part, s)
		}
		components = append(components, n)
	}

	return Number{Product: product, Components: components}, nil
}

// MustParse is like Parse but panics on error. For constants and tests.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// IsValid reports whether the number has at least one component.
func (n Number) IsValid() bool {
	return len(n.Components) > 0
}

// String renders the number back to its textual form.
func (n Number) String() string {
	var sb strings.Builder
	if n.Product != "" {
		sb.WriteString(n.Product)
		sb.WriteByte('-')
	}
	for i, c := range n.Components {
		if i > 0 {
			sb.WriteByte('.')
		}
		if c == Wildcard {
			sb.WriteByte('*')
		} else {
			sb.WriteString(strconv.Itoa(c))
		}
	}
	return sb.String()
}

// Compare orders two build numbers component-wise.
// Returns 1 if n > other, -1 if n < other, 0 if equal.
//
// A missing component counts as zero, so 145 < 145.200 and
// 145 == 145.0. A Wildcard component compares greater than any
// number, making "145.*" an inclusive upper bound for the 145 line.
// Product codes are ignored.
func (n Number) Compare(other Number) int {
	maxLen := len(n.Components)
	if len(other.Components) > maxLen {
		maxLen = len(other.Components)
	}

	for i := 0; i < maxLen; i++ {
		a, b := 0, 0
		if i < len(n.Components) {
			a = n.Components[i]
		}
		if i < len(other.Components) {
			b = other.Components[i]
		}

		if a == b {
			continue
		}
		if a == Wildcard {
			return 1
		}
		if b == Wildcard {
			return -1
		}
		if a > b {
			return 1
		}
		return -1
	}

	return 0
}

// Less reports whether n orders strictly before other.
func (n Number) Less(other Number) bool {
	return n.Compare(other) < 0
}

// InRange reports whether n falls within [since, until].
// An invalid (empty) bound does not constrain that side.
func (n Number) InRange(since, until Number) bool {
	if since.IsValid() && n.Compare(since) < 0 {
		return false
	}
	if until.IsValid() && n.Compare(until) > 0 {
		return false
	}
	return true
}
