package interactions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/citytrip/playlistbridge/pkg/cache"
	"github.com/citytrip/playlistbridge/pkg/playlist"
	"github.com/citytrip/playlistbridge/pkg/render"
)

const (
	// maxListEntries caps how many places a list reply shows.
	maxListEntries = 25
	// listBudget caps the accumulated reply size in runes. Discord rejects
	// oversized messages, so truncate before it does.
	listBudget = 1500
)

const unavailableMessage = "This playlist's data has expired. Please push the playlist again and retry."

// View is the reply content for one interaction. Replies are always
// ephemeral; only the pressing user sees them.
type View struct {
	Content string
}

// Resolver turns button custom IDs back into reply content, recovering the
// original payload from the submission cache where needed. It holds no
// per-interaction state.
type Resolver struct {
	store   *cache.Store
	baseURL string
}

func NewResolver(store *cache.Store, frontendBaseURL string) *Resolver {
	return &Resolver{
		store:   store,
		baseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

// Resolve maps a custom ID to its reply. It never fails: unknown actions and
// expired submissions resolve to explanatory views.
func (r *Resolver) Resolve(customID string) View {
	switch {
	case strings.HasPrefix(customID, render.ShowVenuesPrefix):
		return r.listView(strings.TrimPrefix(customID, render.ShowVenuesPrefix), "Venues", venuesOf)
	case strings.HasPrefix(customID, render.ShowRoutesPrefix):
		return r.listView(strings.TrimPrefix(customID, render.ShowRoutesPrefix), "Routes", routesOf)
	}

	// <type>_<action>_<id> form: direct links for individual places.
	parts := strings.SplitN(customID, "_", 3)
	if len(parts) == 3 && (parts[0] == "venue" || parts[0] == "route") {
		switch parts[1] {
		case "view":
			return View{Content: fmt.Sprintf("Open it here: %s/%s/%s", r.baseURL, parts[0], parts[2])}
		case "maps":
			return View{Content: "Use the map link shown next to the entry."}
		}
	}

	return View{Content: "Unknown action."}
}

func venuesOf(p playlist.Payload) []playlist.Place { return p.RelatedVenues }
func routesOf(p playlist.Payload) []playlist.Place { return p.RelatedRoutes }

func (r *Resolver) listView(submissionID, heading string, pick func(playlist.Payload) []playlist.Place) View {
	p, ok := r.store.Get(submissionID)
	if !ok {
		return View{Content: unavailableMessage}
	}

	places := pick(p)
	if len(places) == 0 {
		return View{Content: fmt.Sprintf("**%s**\nNothing here yet.", heading)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s (%d)**\n", heading, len(places))
	size := utf8.RuneCountInString(b.String())

	shown := 0
	for _, place := range places {
		if shown >= maxListEntries {
			break
		}
		line := formatPlace(shown+1, place)
		// Stop before the line that would blow the budget, leaving room
		// for the truncation marker.
		lineSize := utf8.RuneCountInString(line)
		if size+lineSize > listBudget {
			break
		}
		b.WriteString(line)
		size += lineSize
		shown++
	}

	if remaining := len(places) - shown; remaining > 0 {
		fmt.Fprintf(&b, "…and %d more\n", remaining)
	}

	return View{Content: strings.TrimRight(b.String(), "\n")}
}

func formatPlace(n int, place playlist.Place) string {
	name := place.Name
	if name == "" {
		name = "(unnamed)"
	}
	if link := place.MapLink(); link != "" {
		return fmt.Sprintf("%d. **%s** — [Map](%s)\n", n, name, link)
	}
	return fmt.Sprintf("%d. **%s**\n", n, name)
}
