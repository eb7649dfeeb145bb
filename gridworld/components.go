package gridworld

// Regions labels every free cell with the index of its static connected
// region under the world's connectivity; blocked cells get -1. Labels are
// assigned in row-major order of each region's first cell. The result is
// computed once and shared, so callers must not modify it.
//
// Time:   O(W·H·d) on first use, where d = 4 or 8.
// Memory: O(W·H).
func (w *World) Regions() []int {
	w.regionsOnce.Do(func() {
		labels := make([]int, w.Width*w.Height)
		for i := range labels {
			labels[i] = -1
		}
		next := 0
		for y := 0; y < w.Height; y++ {
			for x := 0; x < w.Width; x++ {
				i0 := w.index(x, y)
				if !w.Free(x, y) || labels[i0] >= 0 {
					continue
				}
				// BFS over free cells
				queue := []int{i0}
				labels[i0] = next
				for qi := 0; qi < len(queue); qi++ {
					ux, uy := w.Coordinate(queue[qi])
					for _, d := range w.offsets {
						vx, vy := ux+d[0], uy+d[1]
						if !w.Free(vx, vy) {
							continue
						}
						vi := w.index(vx, vy)
						if labels[vi] < 0 {
							labels[vi] = next
							queue = append(queue, vi)
						}
					}
				}
				next++
			}
		}
		w.regions = labels
	})

	return w.regions
}

// Connected reports whether the cells of a and b lie in the same static
// region, i.e. whether b is reachable from a ignoring time and other agents.
func (w *World) Connected(a, b State) bool {
	if !w.Free(a.X, a.Y) || !w.Free(b.X, b.Y) {
		return false
	}
	r := w.Regions()

	return r[w.index(a.X, a.Y)] == r[w.index(b.X, b.Y)]
}
