package penumbra

// Hulls is the set of occluders registered with a renderer. Membership
// changes and hull mutations advance the registry's change generation, which
// invalidates every light's cached shadow geometry on the next frame.
// Host reads of derived hull geometry never consume the change signal.
type Hulls struct {
	list []*Hull

	// gen counts membership changes; renderedGen is the combined generation
	// the renderer last consumed.
	gen         uint64
	renderedGen uint64
}

// Add registers a hull. Nil hulls are ignored.
func (hs *Hulls) Add(h *Hull) {
	if h == nil {
		return
	}
	hs.list = append(hs.list, h)
	hs.gen++
}

// Remove unregisters a hull. No-op if the hull is not present.
func (hs *Hulls) Remove(h *Hull) {
	for i, existing := range hs.list {
		if existing == h {
			hs.list = append(hs.list[:i], hs.list[i+1:]...)
			hs.gen++
			return
		}
	}
}

// Clear removes all hulls.
func (hs *Hulls) Clear() {
	if len(hs.list) == 0 {
		return
	}
	hs.list = hs.list[:0]
	hs.gen++
}

// List returns the registered hulls. The returned slice MUST NOT be mutated.
func (hs *Hulls) List() []*Hull {
	return hs.list
}

// Contains reports whether the world-space point is inside any enabled hull.
// Lights inside a hull are fully occluded and skipped by the renderer.
func (hs *Hulls) Contains(p Vec2) bool {
	for _, h := range hs.list {
		if h.Enabled && h.Contains(p) {
			return true
		}
	}
	return false
}

// IsDirty reports whether any hull (or the registry's membership) changed
// since the renderer last drew. Advisory: hosts with their own caches keyed
// on hull state can poll it without disturbing the renderer's invalidation.
func (hs *Hulls) IsDirty() bool {
	return hs.generation() != hs.renderedGen
}

// generation combines the registry's membership generation with every hull's
// mutation generation. All counters only grow, so the sum is strictly
// monotonic across any change.
func (hs *Hulls) generation() uint64 {
	g := hs.gen
	for _, h := range hs.list {
		g += h.gen
	}
	return g
}

// update refreshes every hull's world geometry and returns the registry's
// change generation for the renderer to stamp per-light shadow caches with.
func (hs *Hulls) update() uint64 {
	g := hs.generation()
	hs.renderedGen = g
	for _, h := range hs.list {
		h.update()
	}
	return g
}
