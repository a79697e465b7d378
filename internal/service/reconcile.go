package service

// reconcile merges an identity-or-create list into an existing child
// collection and returns the new collection:
//
//   - incoming entries whose id matches an existing child update it in place
//   - incoming entries without an id become fresh children
//   - existing children absent from the incoming list are dropped
//
// Omitting an existing id is an explicit delete instruction; callers that
// want to leave children untouched must not call this at all.
func reconcile[E any, P any](
	existing []E,
	incoming []P,
	idOf func(E) string,
	patchID func(P) *string,
	update func(*E, P),
	create func(P) E,
) []E {
	byID := make(map[string]*E, len(existing))
	for i := range existing {
		byID[idOf(existing[i])] = &existing[i]
	}

	result := make([]E, 0, len(incoming))
	for _, patch := range incoming {
		id := patchID(patch)
		if id != nil && *id != "" {
			if current, ok := byID[*id]; ok {
				update(current, patch)
				result = append(result, *current)
			}
			// An id that matches nothing is stale client state; skip it.
			continue
		}
		result = append(result, create(patch))
	}
	return result
}
