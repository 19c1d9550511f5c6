// package models defines the data model for the speaker browser
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Recognized config keys.
const (
	KeyWindowGeometry  = "window_geometry"  // opaque layout string
	KeySashCoordinates = "sash_coordinates" // "index:x:y" pairs joined by ","
	KeyLastSelected    = "last_selected"    // speaker uid, or unset for no selection
)

// ConfigEntry is one row of the settings table. Name is unique.
type ConfigEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AlbumArtEntry is one cached album art blob keyed by track URI.
type AlbumArtEntry struct {
	URI   string
	Image []byte
}

// SpeakerInfo is the identifying data of a discovered speaker.
type SpeakerInfo struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	IP     string `json:"ip"`
	Serial string `json:"serial,omitempty"`
	MAC    string `json:"mac,omitempty"`
}

// TrackInfo is the now-playing metadata reported by a speaker.
type TrackInfo struct {
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Album       string        `json:"album"`
	AlbumArtURL string        `json:"album_art_url,omitempty"`
	URI         string        `json:"uri"`
	Duration    time.Duration `json:"duration"`
	Position    time.Duration `json:"position"`
}

// QueueItem is one entry in a speaker's playback queue. URI is the primary resource URI.
type QueueItem struct {
	Creator string `json:"creator"`
	Title   string `json:"title"`
	URI     string `json:"uri"`
}

// Label renders the item as "creator - title".
func (q QueueItem) Label() string {
	return fmt.Sprintf("%s - %s", q.Creator, q.Title)
}

// DisplayName renders a speaker as `Name ("ip")` in title case.
func DisplayName(info SpeakerInfo) string {
	return titleCase(fmt.Sprintf("%s (%q)", info.Name, info.IP))
}

// titleCase upper-cases the first letter of every run of letters and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// Sash is the position of one pane divider.
type Sash struct {
	Index int
	X     int
	Y     int
}

// FormatSashes encodes sashes as "index:x:y" joined by ",".
func FormatSashes(sashes []Sash) string {
	parts := make([]string, len(sashes))
	for i, s := range sashes {
		parts[i] = fmt.Sprintf("%d:%d:%d", s.Index, s.X, s.Y)
	}
	return strings.Join(parts, ",")
}

// ParseSashes decodes the value stored under [KeySashCoordinates].
func ParseSashes(value string) ([]Sash, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var sashes []Sash
	for _, part := range strings.Split(value, ",") {
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid sash %q", part)
		}

		var nums [3]int
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("invalid sash %q: %w", part, err)
			}
			nums[i] = n
		}
		sashes = append(sashes, Sash{Index: nums[0], X: nums[1], Y: nums[2]})
	}
	return sashes, nil
}

// Layout is the persisted window state.
type Layout struct {
	Geometry string
	Sashes   []Sash
}
