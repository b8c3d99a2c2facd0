package memhost

import (
	"slices"

	"github.com/goliatone/go-posttypes/pkg/host"
)

var (
	contextOrder  = []string{"normal", "advanced", "side"}
	priorityOrder = []string{"high", "core", "default", "low"}
)

// AddMetaBox registers box on its screen. A box with the same id on that
// screen is replaced.
func (s *Site) AddMetaBox(box host.Box) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boxes := slices.DeleteFunc(s.boxes[box.Screen], func(b host.Box) bool { return b.ID == box.ID })
	s.boxes[box.Screen] = append(boxes, box)
	s.logger.Debug("meta box added", "metabox", box.ID, "screen", box.Screen, "context", box.Context, "priority", box.Priority)
}

// RemoveMetaBox drops the box registered under id on screen in context.
func (s *Site) RemoveMetaBox(id, screen, context string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	boxes := slices.DeleteFunc(s.boxes[screen], func(b host.Box) bool {
		return b.ID == id && b.Context == context
	})
	if len(boxes) == 0 {
		delete(s.boxes, screen)
		return
	}
	s.boxes[screen] = boxes
}

// MetaBoxes returns the boxes registered on screen ordered by context, then
// priority, then registration order.
func (s *Site) MetaBoxes(screen string) []host.Box {
	s.mu.RLock()
	boxes := slices.Clone(s.boxes[screen])
	s.mu.RUnlock()

	slices.SortStableFunc(boxes, func(a, b host.Box) int {
		if c := rank(contextOrder, a.Context) - rank(contextOrder, b.Context); c != 0 {
			return c
		}
		return rank(priorityOrder, a.Priority) - rank(priorityOrder, b.Priority)
	})
	return boxes
}

// rank places unknown values after the known ones.
func rank(order []string, value string) int {
	if idx := slices.Index(order, value); idx >= 0 {
		return idx
	}
	return len(order)
}
