package naming

import (
	"slices"
	"strings"

	"github.com/timvw/tmux-window-name/internal/model"
)

// PanePath is a pane with the shortest directory suffix that tells it apart
// from the other path-labeled panes.
type PanePath struct {
	Pane        model.ResolvedPane
	DisplayPath string
}

type pathEntry struct {
	segments []string
	absolute bool
}

// splitPath breaks a directory into its segments. Absolute paths report
// absolute=true; the root directory has no segments.
func splitPath(dir string) (segments []string, absolute bool) {
	absolute = strings.HasPrefix(dir, "/")
	for _, s := range strings.Split(dir, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments, absolute
}

func leaf(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// suffix renders the last n segments. When n covers the whole path, an
// absolute path keeps its leading slash so it stays distinct from a longer
// path with the same tail.
func suffix(segments []string, absolute bool, n int) string {
	if n >= len(segments) {
		joined := strings.Join(segments, "/")
		if absolute {
			return "/" + joined
		}
		return joined
	}
	return strings.Join(segments[len(segments)-n:], "/")
}

// ExclusivePaths computes a display path for every pane, in input order.
//
// Panes are grouped by the last segment of their directory. A pane alone in
// its group shows just that segment. Otherwise the pane walks up its
// ancestry until its suffix differs from every other group member that sits
// in a different directory. Panes sharing one directory cannot be told apart
// and end up with the same label.
func ExclusivePaths(panes []model.ResolvedPane) []PanePath {
	entries := make([]pathEntry, len(panes))
	groups := make(map[string][]int)
	for i, p := range panes {
		segs, abs := splitPath(p.Info.CurrentPath)
		entries[i] = pathEntry{segments: segs, absolute: abs}
		key := leaf(segs)
		groups[key] = append(groups[key], i)
	}

	result := make([]PanePath, len(panes))
	for i, p := range panes {
		e := entries[i]
		result[i] = PanePath{Pane: p}

		if len(e.segments) == 0 {
			result[i].DisplayPath = suffix(e.segments, e.absolute, 0)
			continue
		}

		var rivals []pathEntry
		for _, j := range groups[leaf(e.segments)] {
			other := entries[j]
			if j == i || e.sameDir(other) {
				continue
			}
			rivals = append(rivals, other)
		}
		if len(rivals) == 0 {
			result[i].DisplayPath = leaf(e.segments)
			continue
		}

		result[i].DisplayPath = e.shortestUnique(rivals)
	}
	return result
}

// shortestUnique extends the suffix one segment at a time. Once the whole
// path is used and it still collides, the absolute form is the last resort.
func (e pathEntry) shortestUnique(rivals []pathEntry) string {
	for n := 1; ; n++ {
		rel := strings.Join(e.segments[len(e.segments)-min(n, len(e.segments)):], "/")
		if unique(rel, n, rivals) {
			return rel
		}
		if n >= len(e.segments) {
			return suffix(e.segments, e.absolute, n)
		}
	}
}

func unique(candidate string, n int, rivals []pathEntry) bool {
	for _, r := range rivals {
		if suffix(r.segments, r.absolute, n) == candidate {
			return false
		}
	}
	return true
}

func (e pathEntry) sameDir(o pathEntry) bool {
	return e.absolute == o.absolute && slices.Equal(e.segments, o.segments)
}
