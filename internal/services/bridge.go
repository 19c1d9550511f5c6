package services

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/samber/lo"
)

var (
	_ Controller = (*BridgeService)(nil)
	_ Speaker    = (*bridgeSpeaker)(nil)
)

// BridgeService implements [Controller] on top of a node-sonos-http-api style bridge.
//
// The bridge does discovery and UPnP itself; this client only maps its JSON
// endpoints onto [Speaker].
type BridgeService struct {
	api    *APIService
	logger *log.Logger
}

// NewBridgeService creates a [BridgeService] that talks to the bridge through api.
func NewBridgeService(api *APIService, logger *log.Logger) *BridgeService {
	if api == nil {
		api = NewAPIService("", nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BridgeService{api: api, logger: logger}
}

// BridgeZone is one entry of GET /zones.
type BridgeZone struct {
	UUID        string         `json:"uuid"`
	Coordinator BridgeMember   `json:"coordinator"`
	Members     []BridgeMember `json:"members"`
}

// BridgeMember is a single player inside a zone.
type BridgeMember struct {
	UUID         string `json:"uuid"`
	RoomName     string `json:"roomName"`
	BaseURL      string `json:"baseUrl,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	MACAddress   string `json:"macAddress,omitempty"`
}

// BridgeState is the body of GET /{room}/state.
type BridgeState struct {
	Volume        int         `json:"volume"`
	Mute          bool        `json:"mute"`
	PlaybackState string      `json:"playbackState"`
	ElapsedTime   int         `json:"elapsedTime"`
	CurrentTrack  BridgeTrack `json:"currentTrack"`
}

// BridgeTrack describes a track in /state and /queue responses. Durations are seconds.
type BridgeTrack struct {
	Artist              string `json:"artist"`
	Title               string `json:"title"`
	Album               string `json:"album"`
	AlbumArtURI         string `json:"albumArtUri"`
	AbsoluteAlbumArtURI string `json:"absoluteAlbumArtUri"`
	Duration            int    `json:"duration"`
	URI                 string `json:"uri"`
}

// Discover lists every player in every zone, once per uuid.
func (b *BridgeService) Discover(ctx context.Context) ([]Speaker, error) {
	var zones []BridgeZone
	if err := b.api.GetJSON(ctx, "/zones", &zones); err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	members := lo.FlatMap(zones, func(z BridgeZone, _ int) []BridgeMember {
		if len(z.Members) == 0 && z.Coordinator.UUID != "" {
			return []BridgeMember{z.Coordinator}
		}
		return z.Members
	})
	members = lo.UniqBy(members, func(m BridgeMember) string { return m.UUID })

	b.logger.Debug("found speakers", "zones", len(zones), "speakers", len(members))

	return lo.Map(members, func(m BridgeMember, _ int) Speaker {
		return &bridgeSpeaker{api: b.api, info: m.info()}
	}), nil
}

func (m BridgeMember) info() models.SpeakerInfo {
	return models.SpeakerInfo{
		UID:    m.UUID,
		Name:   m.RoomName,
		IP:     hostOf(m.BaseURL),
		Serial: m.SerialNumber,
		MAC:    m.MACAddress,
	}
}

// hostOf extracts the host from a player base URL such as http://192.168.1.20:1400.
func hostOf(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(u.Host); err == nil {
		return host
	}
	return u.Host
}

// Track converts a bridge track to [models.TrackInfo].
func (t BridgeTrack) Track(elapsed int) *models.TrackInfo {
	art := t.AbsoluteAlbumArtURI
	if art == "" {
		art = t.AlbumArtURI
	}
	return &models.TrackInfo{
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		AlbumArtURL: art,
		URI:         t.URI,
		Duration:    time.Duration(t.Duration) * time.Second,
		Position:    time.Duration(elapsed) * time.Second,
	}
}

// stateReuse bounds how long a /state response fetched by CurrentTrack may
// still answer the Volume call that follows it.
const stateReuse = 2 * time.Second

type bridgeSpeaker struct {
	api  *APIService
	info models.SpeakerInfo

	mu      sync.Mutex
	last    *BridgeState
	lastAt  time.Time
	nowFunc func() time.Time
}

func (s *bridgeSpeaker) Info() models.SpeakerInfo { return s.info }

func (s *bridgeSpeaker) path(parts ...string) string {
	p := "/" + url.PathEscape(s.info.Name)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (s *bridgeSpeaker) state(ctx context.Context) (*BridgeState, error) {
	var state BridgeState
	if err := s.api.GetJSON(ctx, s.path("state"), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *bridgeSpeaker) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}
	return time.Now()
}

// remember keeps state for the next Volume call.
func (s *bridgeSpeaker) remember(state *BridgeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = state
	s.lastAt = s.now()
}

// take returns the remembered state at most once, and only while it is fresh.
func (s *bridgeSpeaker) take() *BridgeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.last
	s.last = nil
	if state == nil || s.now().Sub(s.lastAt) > stateReuse {
		return nil
	}
	return state
}

func (s *bridgeSpeaker) forget() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}

// CurrentTrack fetches /state and keeps it so the Volume call of the same
// refresh reads the same snapshot.
func (s *bridgeSpeaker) CurrentTrack(ctx context.Context) (*models.TrackInfo, error) {
	state, err := s.state(ctx)
	if err != nil {
		s.forget()
		return nil, err
	}
	s.remember(state)
	return state.CurrentTrack.Track(state.ElapsedTime), nil
}

func (s *bridgeSpeaker) Volume(ctx context.Context) (int, error) {
	if state := s.take(); state != nil {
		return state.Volume, nil
	}
	state, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	return state.Volume, nil
}

func (s *bridgeSpeaker) SetVolume(ctx context.Context, level int) error {
	s.forget()
	return s.api.GetJSON(ctx, s.path("volume", fmt.Sprint(level)), nil)
}

func (s *bridgeSpeaker) Queue(ctx context.Context) ([]models.QueueItem, error) {
	var tracks []BridgeTrack
	if err := s.api.GetJSON(ctx, s.path("queue"), &tracks); err != nil {
		return nil, err
	}
	return lo.Map(tracks, func(t BridgeTrack, _ int) models.QueueItem {
		return models.QueueItem{Creator: t.Artist, Title: t.Title, URI: t.URI}
	}), nil
}

func (s *bridgeSpeaker) Play(ctx context.Context) error {
	return s.api.GetJSON(ctx, s.path("play"), nil)
}

func (s *bridgeSpeaker) Pause(ctx context.Context) error {
	return s.api.GetJSON(ctx, s.path("pause"), nil)
}

func (s *bridgeSpeaker) Next(ctx context.Context) error {
	return s.api.GetJSON(ctx, s.path("next"), nil)
}

func (s *bridgeSpeaker) Previous(ctx context.Context) error {
	return s.api.GetJSON(ctx, s.path("previous"), nil)
}

// PlayFromQueue maps the zero-based index onto the bridge's one-based trackseek.
func (s *bridgeSpeaker) PlayFromQueue(ctx context.Context, index int) error {
	if err := s.api.GetJSON(ctx, s.path("trackseek", fmt.Sprint(index+1)), nil); err != nil {
		return err
	}
	return s.Play(ctx)
}
