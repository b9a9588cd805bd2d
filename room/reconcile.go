package room

import (
	"sort"

	"github.com/imtaco/roomkit/engine"
)

// diffPublications computes the changes between the tracked remote
// publication set and a freshly listed one. Publications published by the
// local member are excluded from the remote view. Results are sorted by
// publication ID so event order is deterministic for a given input.
func diffPublications(
	prev map[engine.PublicationID]engine.Publication,
	current []engine.Publication,
	local engine.MemberID,
) (next map[engine.PublicationID]engine.Publication, added, removed []engine.Publication) {

	next = make(map[engine.PublicationID]engine.Publication, len(current))
	for _, p := range current {
		if p.Publisher == local {
			continue
		}
		next[p.ID] = p
	}

	for id, p := range next {
		if _, ok := prev[id]; !ok {
			added = append(added, p)
		}
	}
	for id, p := range prev {
		if _, ok := next[id]; !ok {
			removed = append(removed, p)
		}
	}

	sortByID(added)
	sortByID(removed)
	return next, added, removed
}

// diffMembers derives member arrivals and departures from the publisher
// sets of two remote publication maps.
func diffMembers(
	prev map[engine.MemberID]struct{},
	pubs map[engine.PublicationID]engine.Publication,
) (next map[engine.MemberID]struct{}, joined, left []engine.MemberID) {

	next = make(map[engine.MemberID]struct{}, len(prev))
	for _, p := range pubs {
		next[p.Publisher] = struct{}{}
	}

	for m := range next {
		if _, ok := prev[m]; !ok {
			joined = append(joined, m)
		}
	}
	for m := range prev {
		if _, ok := next[m]; !ok {
			left = append(left, m)
		}
	}

	sort.Slice(joined, func(i, j int) bool { return joined[i] < joined[j] })
	sort.Slice(left, func(i, j int) bool { return left[i] < left[j] })
	return next, joined, left
}

func sortByID(pubs []engine.Publication) {
	sort.Slice(pubs, func(i, j int) bool { return pubs[i].ID < pubs[j].ID })
}
