package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/geofence"
)

// ResponseFormatter renders command output as Markdown. Transports convert
// it for their medium.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("📍 **%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func (f *ResponseFormatter) Error(err error) string {
	if errors.Is(err, core.ErrLocationRequired) || errors.Is(err, core.ErrLocationStale) {
		return fmt.Sprintf("📡 **Location Access Required**\n\n%s\n", err.Error())
	}
	return fmt.Sprintf("❌ **Command Error**\n\n**Issue**: %s\n", err.Error())
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) Usage(command string) string {
	if command == "" {
		return ""
	}
	return fmt.Sprintf("**Usage**:\n```%s```\n", command)
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// Record formats a content item. With a reference fix the distance to it is
// appended.
func (f *ResponseFormatter) Record(rec core.ContentRecord, ref *core.LocationSample) string {
	line := fmt.Sprintf("`%d` \"%s\" by _%s_ (%s)", rec.ID, rec.Payload.Text, rec.Payload.Author, rec.Payload.Color)
	if ref != nil {
		line += fmt.Sprintf(" · %s", formatMeters(geofence.DistanceTo(ref.Coordinates(), rec.Location)))
	}
	return line
}

func (f *ResponseFormatter) Landmark(l core.Landmark, ref *core.LocationSample) string {
	line := fmt.Sprintf("🏙 %s", l.Label)
	if ref != nil {
		line += fmt.Sprintf(" · %s", formatMeters(geofence.DistanceTo(ref.Coordinates(), l.Coordinates())))
	}
	return line
}

func (f *ResponseFormatter) Location(s core.LocationSample) string {
	return fmt.Sprintf("%.6f, %.6f (±%.0f m)", s.Latitude, s.Longitude, s.Accuracy)
}

func formatMeters(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.0f m", m)
	}
	return fmt.Sprintf("%.1f km", m/1000)
}

// Scene summarizes a snapshot for chat transports.
func (f *ResponseFormatter) Scene(snap core.Snapshot) string {
	sections := []string{f.Info(fmt.Sprintf("AR scene · %s mode", snap.Mode))}

	if len(snap.Landmarks) > 0 {
		items := make([]string, 0, len(snap.Landmarks))
		for _, l := range snap.Landmarks {
			items = append(items, f.Landmark(l, snap.Location))
		}
		sections = append(sections, f.List(items))
	}

	if len(snap.Nearby) == 0 {
		sections = append(sections, "No AR content nearby.\n")
	} else {
		items := make([]string, 0, len(snap.Nearby))
		for _, rec := range snap.Nearby {
			items = append(items, f.Record(rec, snap.Location))
		}
		sections = append(sections, f.List(items))
	}
	return f.Combine(sections...)
}
