package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/services"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/samber/lo"
)

// Store is the part of the persistence store the session reads and writes.
//
// [repositories.Store] satisfies it.
type Store interface {
	SetConfig(name, value string) error
	UnsetConfig(name string) error
	GetConfig(name string) (string, bool, error)
	GetAlbumArt(uri string) ([]byte, bool, error)
	PutAlbumArt(uri string, image []byte)
}

// State is the coarse session state derived from the known speakers and the selection.
type State int

const (
	NoSpeakers State = iota
	SpeakersKnown
	SpeakerSelected
)

func (s State) String() string {
	switch s {
	case NoSpeakers:
		return "no_speakers"
	case SpeakersKnown:
		return "speakers_known"
	case SpeakerSelected:
		return "speaker_selected"
	default:
		return ""
	}
}

// Command is a transport command sent to the selected speaker.
type Command int

const (
	Play Command = iota
	Pause
	Next
	Previous
)

func (c Command) String() string {
	switch c {
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return ""
	}
}

// ParseCommand maps a command name such as "play" onto a [Command].
func ParseCommand(name string) (Command, error) {
	for _, c := range []Command{Play, Pause, Next, Previous} {
		if strings.EqualFold(name, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown transport command %q", shared.ErrValidation, name)
}

// Session holds the known speakers, the single selected speaker, its queue and
// the last now-playing info. Every transition goes through its methods.
//
// A Session is not safe for concurrent use; callers issue one operation at a time.
type Session struct {
	id         string
	store      Store
	controller services.Controller
	fetcher    services.Fetcher
	logger     *log.Logger

	speakers    []services.Speaker
	selected    services.Speaker
	queue       []models.QueueItem
	queueLoaded bool
	nowPlaying  *models.TrackInfo
	volume      int
}

// New creates an empty session in the [NoSpeakers] state.
//
// controller and fetcher may be nil when the caller never discovers speakers
// or loads album art.
func New(store Store, controller services.Controller, fetcher services.Fetcher, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	id := shared.GenerateID()
	return &Session{
		id:         id,
		store:      store,
		controller: controller,
		fetcher:    fetcher,
		logger:     shared.WithLogger(logger, "session", id),
	}
}

func (s *Session) SessionID() string { return s.id }

// State reports the current session state.
func (s *Session) State() State {
	switch {
	case s.selected != nil:
		return SpeakerSelected
	case len(s.speakers) > 0:
		return SpeakersKnown
	default:
		return NoSpeakers
	}
}

// Speakers returns the known speakers in discovery order.
func (s *Session) Speakers() []models.SpeakerInfo {
	return lo.Map(s.speakers, func(sp services.Speaker, _ int) models.SpeakerInfo { return sp.Info() })
}

// Selected returns the selected speaker, if any.
func (s *Session) Selected() (models.SpeakerInfo, bool) {
	if s.selected == nil {
		return models.SpeakerInfo{}, false
	}
	return s.selected.Info(), true
}

func (s *Session) Queue() []models.QueueItem {
	return append([]models.QueueItem(nil), s.queue...)
}

func (s *Session) QueueLoaded() bool { return s.queueLoaded }

// NowPlaying returns a copy of the last fetched track, or nil.
func (s *Session) NowPlaying() *models.TrackInfo {
	if s.nowPlaying == nil {
		return nil
	}
	track := *s.nowPlaying
	return &track
}

// Volume returns the last known volume of the selected speaker.
func (s *Session) Volume() int { return s.volume }

func (s *Session) find(uid string) (services.Speaker, bool) {
	return lo.Find(s.speakers, func(sp services.Speaker) bool { return sp.Info().UID == uid })
}

func (s *Session) clearSpeakerData() {
	s.queue = nil
	s.queueLoaded = false
	s.nowPlaying = nil
	s.volume = 0
}

// LoadSpeakers replaces the known speakers. A selection whose uid is no longer
// present is dropped together with its queue and now-playing info.
func (s *Session) LoadSpeakers(speakers []services.Speaker) {
	s.speakers = append([]services.Speaker(nil), speakers...)

	if s.selected == nil {
		return
	}

	uid := s.selected.Info().UID
	if sp, ok := s.find(uid); ok {
		s.selected = sp
		return
	}

	s.logger.Info("selected speaker vanished", "uid", uid)
	s.selected = nil
	s.clearSpeakerData()
}

// Discover asks the controller for the reachable speakers and loads them.
func (s *Session) Discover(ctx context.Context) error {
	if s.controller == nil {
		return fmt.Errorf("%w: no speaker controller configured", shared.ErrServiceUnavailable)
	}

	speakers, err := s.controller.Discover(ctx)
	if err != nil {
		return fmt.Errorf("%w: discovery failed: %v", shared.ErrSpeakerCommunication, err)
	}

	s.logger.Debug("discovered speakers", "count", len(speakers))
	s.LoadSpeakers(speakers)
	return nil
}

// SelectSpeaker makes uid the selected speaker and records it as last_selected.
//
// Selecting the current speaker again is a no-op. If the store write fails the
// selection is left as it was.
func (s *Session) SelectSpeaker(uid string) error {
	sp, ok := s.find(uid)
	if !ok {
		return fmt.Errorf("%w: no speaker with uid %q", shared.ErrNotFound, uid)
	}

	if s.selected != nil && s.selected.Info().UID == uid {
		return nil
	}

	if err := s.store.SetConfig(models.KeyLastSelected, uid); err != nil {
		return fmt.Errorf("%w: failed to save selection: %v", shared.ErrStore, err)
	}

	s.selected = sp
	s.clearSpeakerData()
	s.logger.Info("selected speaker", "uid", uid, "name", sp.Info().Name)
	return nil
}

// ClearSelection deselects the current speaker and unsets last_selected.
func (s *Session) ClearSelection() error {
	if err := s.store.UnsetConfig(models.KeyLastSelected); err != nil {
		return fmt.Errorf("%w: failed to clear selection: %v", shared.ErrStore, err)
	}
	s.selected = nil
	s.clearSpeakerData()
	return nil
}

// RestoreSelection selects the persisted last_selected speaker when it is
// among the known speakers. It reports whether a speaker was selected.
func (s *Session) RestoreSelection() (bool, error) {
	uid, ok, err := s.store.GetConfig(models.KeyLastSelected)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read selection: %v", shared.ErrStore, err)
	}
	if !ok || uid == "" {
		return false, nil
	}

	if _, known := s.find(uid); !known {
		s.logger.Debug("last selected speaker not present", "uid", uid)
		return false, nil
	}

	if err := s.SelectSpeaker(uid); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) requireSelection() error {
	if s.selected == nil {
		return shared.ErrNoSelection
	}
	return nil
}

// RefreshNowPlaying fetches the current track and volume of the selected speaker.
// On failure the previous now-playing info is kept.
func (s *Session) RefreshNowPlaying(ctx context.Context) (*models.TrackInfo, error) {
	if err := s.requireSelection(); err != nil {
		return nil, err
	}

	track, err := s.selected.CurrentTrack(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get current track: %v", shared.ErrSpeakerCommunication, err)
	}

	volume, err := s.selected.Volume(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get volume: %v", shared.ErrSpeakerCommunication, err)
	}

	s.nowPlaying = track
	s.volume = volume
	return s.NowPlaying(), nil
}

// RefreshQueue replaces the queue wholesale with the speaker's current queue.
// On failure the previous queue is kept.
func (s *Session) RefreshQueue(ctx context.Context) ([]models.QueueItem, error) {
	if err := s.requireSelection(); err != nil {
		return nil, err
	}

	items, err := s.selected.Queue(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get queue: %v", shared.ErrSpeakerCommunication, err)
	}

	s.queue = items
	s.queueLoaded = true
	s.logger.Debug("loaded queue", "items", len(items))
	return s.Queue(), nil
}

// LocatePlayingItem returns the index of the first queue item whose URI is uri.
func (s *Session) LocatePlayingItem(uri string) (int, bool) {
	if uri == "" {
		return -1, false
	}
	_, index, ok := lo.FindIndexOf(s.queue, func(item models.QueueItem) bool { return item.URI == uri })
	return index, ok
}

// IssueTransportCommand sends cmd to the selected speaker and then refreshes
// now-playing. The queue is not touched.
func (s *Session) IssueTransportCommand(ctx context.Context, cmd Command) (*models.TrackInfo, error) {
	if err := s.requireSelection(); err != nil {
		return nil, err
	}

	var err error
	switch cmd {
	case Play:
		err = s.selected.Play(ctx)
	case Pause:
		err = s.selected.Pause(ctx)
	case Next:
		err = s.selected.Next(ctx)
	case Previous:
		err = s.selected.Previous(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown transport command %d", shared.ErrValidation, cmd)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s failed: %v", shared.ErrSpeakerCommunication, cmd, err)
	}

	s.logger.Debug("sent transport command", "command", cmd)
	return s.RefreshNowPlaying(ctx)
}

// SetVolume sets the selected speaker's volume. The stored volume is updated
// on success without re-reading it from the speaker.
func (s *Session) SetVolume(ctx context.Context, level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("%w: volume %d out of range 0..100", shared.ErrValidation, level)
	}
	if err := s.requireSelection(); err != nil {
		return err
	}

	if err := s.selected.SetVolume(ctx, level); err != nil {
		return fmt.Errorf("%w: failed to set volume: %v", shared.ErrSpeakerCommunication, err)
	}

	s.volume = level
	return nil
}

// PlayFromQueue starts playback at a zero-based index of the loaded queue and
// refreshes now-playing.
func (s *Session) PlayFromQueue(ctx context.Context, index int) (*models.TrackInfo, error) {
	if err := s.requireSelection(); err != nil {
		return nil, err
	}
	if !s.queueLoaded {
		return nil, fmt.Errorf("%w: queue not loaded", shared.ErrValidation)
	}
	if index < 0 || index >= len(s.queue) {
		return nil, fmt.Errorf("%w: queue index %d out of range 0..%d", shared.ErrValidation, index, len(s.queue)-1)
	}

	if err := s.selected.PlayFromQueue(ctx, index); err != nil {
		return nil, fmt.Errorf("%w: failed to play queue item %d: %v", shared.ErrSpeakerCommunication, index, err)
	}
	return s.RefreshNowPlaying(ctx)
}

// AlbumArt returns the art for the now-playing track, from the cache when
// present. It returns nil without error when the track has no art.
//
// Downloaded art is cached under the track URI; cache failures are logged by
// the store and never surface here.
func (s *Session) AlbumArt(ctx context.Context) ([]byte, error) {
	if s.nowPlaying == nil || s.nowPlaying.AlbumArtURL == "" {
		return nil, nil
	}

	uri := s.nowPlaying.URI
	if uri != "" {
		image, ok, err := s.store.GetAlbumArt(uri)
		if err != nil {
			s.logger.Warn("album art lookup failed", "uri", uri, "error", err)
		} else if ok {
			return image, nil
		}
	}

	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no album art fetcher configured", shared.ErrServiceUnavailable)
	}

	s.logger.Info("album art not cached, downloading", "uri", uri)
	image, err := s.fetcher.Fetch(ctx, s.nowPlaying.AlbumArtURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download album art: %v", shared.ErrSpeakerCommunication, err)
	}

	if uri != "" {
		s.store.PutAlbumArt(uri, image)
	}
	return image, nil
}

// SaveLayout persists window_geometry and sash_coordinates.
func (s *Session) SaveLayout(layout models.Layout) error {
	if err := s.store.SetConfig(models.KeyWindowGeometry, layout.Geometry); err != nil {
		return fmt.Errorf("%w: failed to save window geometry: %v", shared.ErrStore, err)
	}
	if err := s.store.SetConfig(models.KeySashCoordinates, models.FormatSashes(layout.Sashes)); err != nil {
		return fmt.Errorf("%w: failed to save sash coordinates: %v", shared.ErrStore, err)
	}
	return nil
}

// LoadLayout reads the persisted layout. Missing keys give a zero [models.Layout].
func (s *Session) LoadLayout() (models.Layout, error) {
	var layout models.Layout

	geometry, _, err := s.store.GetConfig(models.KeyWindowGeometry)
	if err != nil {
		return layout, fmt.Errorf("%w: failed to read window geometry: %v", shared.ErrStore, err)
	}
	layout.Geometry = geometry

	value, _, err := s.store.GetConfig(models.KeySashCoordinates)
	if err != nil {
		return layout, fmt.Errorf("%w: failed to read sash coordinates: %v", shared.ErrStore, err)
	}

	sashes, err := models.ParseSashes(value)
	if err != nil {
		return layout, err
	}
	layout.Sashes = sashes
	return layout, nil
}
