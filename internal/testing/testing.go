// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/services"
)

var (
	_ services.Controller = (*MockController)(nil)
	_ services.Speaker    = (*MockSpeaker)(nil)
	_ services.Fetcher    = (*MockFetcher)(nil)
)

// MockController is a test double for [services.Controller]
type MockController struct {
	Speakers      []*MockSpeaker
	Err           error
	DiscoverCalls int
}

// NewMockController builds a controller that discovers the given speakers.
func NewMockController(speakers ...*MockSpeaker) *MockController {
	return &MockController{Speakers: speakers}
}

// Discover returns the configured speakers, or Err.
func (c *MockController) Discover(ctx context.Context) ([]services.Speaker, error) {
	c.DiscoverCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	speakers := make([]services.Speaker, len(c.Speakers))
	for i, s := range c.Speakers {
		speakers[i] = s
	}
	return speakers, nil
}

// MockSpeaker is a test double for [services.Speaker] that counts calls.
//
// Err, when set, is returned from every network method.
type MockSpeaker struct {
	SpeakerInfo models.SpeakerInfo
	Track       *models.TrackInfo
	Level       int
	Items       []models.QueueItem
	Err         error

	Calls       map[string]int
	VolumeSets  []int
	QueueStarts []int
}

// NewMockSpeaker creates a [MockSpeaker] with a uid, a room name and a plausible track.
func NewMockSpeaker(uid, name string) *MockSpeaker {
	return &MockSpeaker{
		SpeakerInfo: models.SpeakerInfo{UID: uid, Name: name, IP: "192.168.1.10"},
		Track: &models.TrackInfo{
			Title:  "Sinnerman",
			Artist: "Nina Simone",
			Album:  "Pastel Blues",
			URI:    "x-file-cifs://nas/music/sinnerman.flac",
		},
		Level: 25,
		Calls: map[string]int{},
	}
}

func (m *MockSpeaker) record(name string) error {
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[name]++
	return m.Err
}

// TotalCalls counts every network call made on the speaker.
func (m *MockSpeaker) TotalCalls() int {
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

func (m *MockSpeaker) Info() models.SpeakerInfo { return m.SpeakerInfo }

func (m *MockSpeaker) CurrentTrack(ctx context.Context) (*models.TrackInfo, error) {
	if err := m.record("CurrentTrack"); err != nil {
		return nil, err
	}
	if m.Track == nil {
		return &models.TrackInfo{}, nil
	}
	track := *m.Track
	return &track, nil
}

func (m *MockSpeaker) Volume(ctx context.Context) (int, error) {
	if err := m.record("Volume"); err != nil {
		return 0, err
	}
	return m.Level, nil
}

func (m *MockSpeaker) SetVolume(ctx context.Context, level int) error {
	if err := m.record("SetVolume"); err != nil {
		return err
	}
	m.VolumeSets = append(m.VolumeSets, level)
	m.Level = level
	return nil
}

func (m *MockSpeaker) Queue(ctx context.Context) ([]models.QueueItem, error) {
	if err := m.record("Queue"); err != nil {
		return nil, err
	}
	return append([]models.QueueItem(nil), m.Items...), nil
}

func (m *MockSpeaker) Play(ctx context.Context) error     { return m.record("Play") }
func (m *MockSpeaker) Pause(ctx context.Context) error    { return m.record("Pause") }
func (m *MockSpeaker) Next(ctx context.Context) error     { return m.record("Next") }
func (m *MockSpeaker) Previous(ctx context.Context) error { return m.record("Previous") }

func (m *MockSpeaker) PlayFromQueue(ctx context.Context, index int) error {
	if err := m.record("PlayFromQueue"); err != nil {
		return err
	}
	m.QueueStarts = append(m.QueueStarts, index)
	return nil
}

// MockFetcher is a test double for [services.Fetcher].
type MockFetcher struct {
	Data  []byte
	Err   error
	Calls int
	URLs  []string
}

func (f *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.Calls++
	f.URLs = append(f.URLs, url)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Data, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
