package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/geo"
)

var _ core.Renderer = (*ConsoleRenderer)(nil)

// ConsoleRenderer prints the AR scene to a terminal. Snapshots that do not
// change the mode or the visible items are not printed again.
type ConsoleRenderer struct {
	out io.Writer

	mu   sync.Mutex
	last string
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{out: out}
}

func (r *ConsoleRenderer) Render(ctx context.Context, snap core.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := SceneKey(snap)
	if key == r.last {
		return
	}
	r.last = key

	fmt.Fprint(r.out, FormatScene(snap))
}

// RenderLocationError shows the manual entry hint. It has the shape of a
// tracker error listener.
func (r *ConsoleRenderer) RenderLocationError(err *core.LocationError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s\n%s\n%s\n",
		WarnStyle.Render("📡 Location Access Required"),
		DescStyle.Render(err.Error()),
		UsageStyle.Render("enter it manually: /pos <lat> <lng>"),
	)
}

func FormatScene(snap core.Snapshot) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("AR scene · %s mode", snap.Mode)) + "\n")

	for _, l := range snap.Landmarks {
		line := "🏙 " + l.Label
		if snap.Location != nil {
			line += " · " + formatDistance(snap.Location.Coordinates(), l.Coordinates())
		}
		b.WriteString(LandmarkStyle.Render(line) + "\n")
	}

	if len(snap.Nearby) == 0 {
		b.WriteString(DescStyle.Render("no AR content nearby") + "\n")
		return b.String()
	}

	for _, rec := range snap.Nearby {
		line := fmt.Sprintf("◆ %s", rec.Payload.Text)
		b.WriteString(ContentStyle(rec.Payload.Color).Render(line))
		meta := " by " + rec.Payload.Author
		if snap.Location != nil {
			meta += " · " + formatDistance(snap.Location.Coordinates(), rec.Location)
		}
		b.WriteString(DescStyle.Render(meta) + "\n")
	}
	return b.String()
}

// SceneKey identifies what a snapshot shows, ignoring small position changes.
func SceneKey(snap core.Snapshot) string {
	var b strings.Builder
	b.WriteString(string(snap.Mode))
	for _, l := range snap.Landmarks {
		b.WriteString("|l:" + l.Label)
	}
	for _, rec := range snap.Nearby {
		fmt.Fprintf(&b, "|c:%d", rec.ID)
	}
	return b.String()
}

func formatDistance(from, to core.Coordinates) string {
	m := geo.Distance(geo.Point{Lat: from.Latitude, Lng: from.Longitude}, geo.Point{Lat: to.Latitude, Lng: to.Longitude})
	if m < 1000 {
		return fmt.Sprintf("%.0f m", m)
	}
	return fmt.Sprintf("%.1f km", m/1000)
}
