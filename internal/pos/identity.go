package pos

import (
	"sort"
	"strconv"
	"strings"
)

// ModifierSelection maps a modifier group id to the option ids chosen from
// that group.  A single-select group carries a one-element slice.  The
// engine treats a selection as an immutable value once it is attached to a
// line item; stores copy it defensively on the way in and out.
type ModifierSelection map[uint64][]uint64

// IdentityKey derives the canonical identity of a line item from its
// product and modifier selection.  Two selections that are set-equal yield
// the same key regardless of how they were constructed: groups are sorted
// by id, option sets are sorted and de-duplicated before joining.  A nil or
// empty selection is valid and maps to the bare product part.  The kitchen
// note deliberately does not participate, so otherwise identical
// configurations with different notes collapse into one line.
func IdentityKey(productID uint64, sel ModifierSelection) string {
	var b strings.Builder
	b.WriteString("p")
	b.WriteString(strconv.FormatUint(productID, 10))

	groups := make([]uint64, 0, len(sel))
	for gid, opts := range sel {
		if len(opts) == 0 {
			continue
		}
		groups = append(groups, gid)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	for _, gid := range groups {
		opts := append([]uint64(nil), sel[gid]...)
		sort.Slice(opts, func(i, j int) bool { return opts[i] < opts[j] })
		b.WriteString("|g")
		b.WriteString(strconv.FormatUint(gid, 10))
		b.WriteString(":")
		var prev uint64
		first := true
		for _, oid := range opts {
			if !first && oid == prev {
				continue // duplicate option id within a set
			}
			if !first {
				b.WriteString(".")
			}
			b.WriteString(strconv.FormatUint(oid, 10))
			prev = oid
			first = false
		}
	}
	return b.String()
}

// copySelection returns an independent copy of sel with duplicate option
// ids removed and option slices sorted, so stored selections are already in
// canonical form.  Empty groups are dropped.  Returns nil for an empty
// selection.
func copySelection(sel ModifierSelection) ModifierSelection {
	if len(sel) == 0 {
		return nil
	}
	out := make(ModifierSelection, len(sel))
	for gid, opts := range sel {
		if len(opts) == 0 {
			continue
		}
		cp := append([]uint64(nil), opts...)
		sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
		dedup := cp[:1]
		for _, oid := range cp[1:] {
			if oid != dedup[len(dedup)-1] {
				dedup = append(dedup, oid)
			}
		}
		out[gid] = dedup
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
