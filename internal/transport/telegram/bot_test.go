package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestSampleFromLocation(t *testing.T) {
	acc := float32(25)
	tests := []struct {
		name string
		loc  *tele.Location
		want core.LocationSample
	}{
		{
			name: "with_accuracy",
			loc:  &tele.Location{Lat: 51.5, Lng: -0.125, HorizontalAccuracy: &acc},
			want: core.LocationSample{Latitude: 51.5, Longitude: -0.125, Accuracy: 25},
		},
		{
			name: "without_accuracy",
			loc:  &tele.Location{Lat: 40.5, Lng: -74},
			want: core.LocationSample{Latitude: 40.5, Longitude: -74},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SampleFromLocation(tt.loc))
		})
	}
}

func TestSplitHTML(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitHTML("short", 100))

	lines := strings.Repeat("line of text\n", 50)
	chunks := splitHTML(lines, 100)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
		assert.False(t, strings.HasPrefix(c, "\n"))
	}
	assert.Equal(t, strings.TrimSpace(lines), strings.Join(chunks, "\n"))
}

func TestSplitHTML_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("📍", 40)
	for _, c := range splitHTML(text, 10) {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, len(c), 10)
	}
}
