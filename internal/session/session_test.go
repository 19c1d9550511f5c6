package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/repositories"
	"github.com/desertthunder/socotk/internal/services"
	"github.com/desertthunder/socotk/internal/shared"
	tu "github.com/desertthunder/socotk/internal/testing"
)

func openStore(t *testing.T, path string) *repositories.Store {
	t.Helper()

	store, err := repositories.Initialize(path, shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setupSession(t *testing.T, speakers ...*tu.MockSpeaker) (*Session, *repositories.Store, *tu.MockFetcher) {
	t.Helper()

	store := openStore(t, filepath.Join(t.TempDir(), "SoCo-Tk.sqlite"))
	fetcher := &tu.MockFetcher{Data: []byte("art")}
	s := New(store, tu.NewMockController(speakers...), fetcher, shared.NewLogger(io.Discard))
	s.LoadSpeakers(asSpeakers(speakers))
	return s, store, fetcher
}

func asSpeakers(mocks []*tu.MockSpeaker) []services.Speaker {
	speakers := make([]services.Speaker, len(mocks))
	for i, m := range mocks {
		speakers[i] = m
	}
	return speakers
}

func TestSessionState(t *testing.T) {
	t.Run("New Session Has No Speakers", func(t *testing.T) {
		s := New(nil, nil, nil, nil)
		if s.State() != NoSpeakers {
			t.Errorf("expected NoSpeakers, got %s", s.State())
		}
		if s.SessionID() == "" {
			t.Error("expected session id")
		}
		if _, ok := s.Selected(); ok {
			t.Error("expected no selection")
		}
	})

	t.Run("Loading Empty List", func(t *testing.T) {
		s, _, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		if s.State() != SpeakersKnown {
			t.Fatalf("expected SpeakersKnown, got %s", s.State())
		}

		s.LoadSpeakers(nil)
		if s.State() != NoSpeakers {
			t.Errorf("expected NoSpeakers, got %s", s.State())
		}
	})

	t.Run("State Strings", func(t *testing.T) {
		tests := []struct {
			state State
			want  string
		}{
			{NoSpeakers, "no_speakers"},
			{SpeakersKnown, "speakers_known"},
			{SpeakerSelected, "speaker_selected"},
			{State(99), ""},
		}
		for _, tt := range tests {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
			}
		}
	})
}

func TestLoadSpeakers(t *testing.T) {
	t.Run("Keeps Selection When Present", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		if err := s.SelectSpeaker("RINCON_1"); err != nil {
			t.Fatalf("failed to select: %v", err)
		}

		rediscovered := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s.LoadSpeakers(asSpeakers([]*tu.MockSpeaker{tu.NewMockSpeaker("RINCON_2", "Office"), rediscovered}))

		if s.State() != SpeakerSelected {
			t.Fatalf("expected SpeakerSelected, got %s", s.State())
		}
		if _, err := s.IssueTransportCommand(context.Background(), Play); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rediscovered.Calls["Play"] != 1 || kitchen.Calls["Play"] != 0 {
			t.Error("expected commands to go to the rediscovered handle")
		}
	})

	t.Run("Drops Selection When Vanished", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{Creator: "a", Title: "b", URI: "u"}}
		s, _, _ := setupSession(t, kitchen)
		ctx := context.Background()

		s.SelectSpeaker("RINCON_1")
		s.RefreshQueue(ctx)
		s.RefreshNowPlaying(ctx)

		s.LoadSpeakers(asSpeakers([]*tu.MockSpeaker{tu.NewMockSpeaker("RINCON_2", "Office")}))

		if s.State() != SpeakersKnown {
			t.Errorf("expected SpeakersKnown, got %s", s.State())
		}
		if s.QueueLoaded() || len(s.Queue()) != 0 || s.NowPlaying() != nil {
			t.Error("expected queue and now-playing to be cleared")
		}
	})
}

func TestDiscover(t *testing.T) {
	t.Run("Loads Discovered Speakers", func(t *testing.T) {
		store := openStore(t, filepath.Join(t.TempDir(), "db.sqlite"))
		controller := tu.NewMockController(tu.NewMockSpeaker("RINCON_1", "Kitchen"), tu.NewMockSpeaker("RINCON_2", "Office"))
		s := New(store, controller, nil, shared.NewLogger(io.Discard))

		if err := s.Discover(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := len(s.Speakers()); got != 2 {
			t.Errorf("expected 2 speakers, got %d", got)
		}
		if controller.DiscoverCalls != 1 {
			t.Errorf("expected 1 discover call, got %d", controller.DiscoverCalls)
		}
	})

	t.Run("Failure Leaves State Untouched", func(t *testing.T) {
		s, _, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		s.controller = &tu.MockController{Err: errors.New("bridge down")}

		err := s.Discover(context.Background())
		if !errors.Is(err, shared.ErrSpeakerCommunication) {
			t.Errorf("expected ErrSpeakerCommunication, got %v", err)
		}
		if len(s.Speakers()) != 1 {
			t.Error("expected known speakers to be kept")
		}
	})

	t.Run("No Controller", func(t *testing.T) {
		s := New(nil, nil, nil, shared.NewLogger(io.Discard))
		if err := s.Discover(context.Background()); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSelectSpeaker(t *testing.T) {
	t.Run("Selects And Persists", func(t *testing.T) {
		s, store, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"), tu.NewMockSpeaker("RINCON_2", "Office"))

		if err := s.SelectSpeaker("RINCON_2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		info, ok := s.Selected()
		if !ok || info.UID != "RINCON_2" {
			t.Errorf("expected RINCON_2 selected, got %+v", info)
		}
		if s.QueueLoaded() {
			t.Error("expected queue not loaded after selection")
		}

		value, ok, err := store.GetConfig(models.KeyLastSelected)
		if err != nil || !ok || value != "RINCON_2" {
			t.Errorf("expected last_selected RINCON_2, got %q ok=%v err=%v", value, ok, err)
		}
	})

	t.Run("Unknown UID", func(t *testing.T) {
		s, _, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		s.SelectSpeaker("RINCON_1")

		err := s.SelectSpeaker("RINCON_9")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if info, _ := s.Selected(); info.UID != "RINCON_1" {
			t.Errorf("expected selection unchanged, got %q", info.UID)
		}
	})

	t.Run("Same UID Is No-Op", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{Creator: "a", Title: "b", URI: "u"}}
		s, _, _ := setupSession(t, kitchen)

		s.SelectSpeaker("RINCON_1")
		s.RefreshQueue(context.Background())

		if err := s.SelectSpeaker("RINCON_1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !s.QueueLoaded() {
			t.Error("expected queue to be kept on reselect")
		}
	})

	t.Run("Store Failure Keeps Selection", func(t *testing.T) {
		s, store, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"), tu.NewMockSpeaker("RINCON_2", "Office"))
		s.SelectSpeaker("RINCON_1")
		store.Close()

		err := s.SelectSpeaker("RINCON_2")
		if !errors.Is(err, shared.ErrStore) {
			t.Errorf("expected ErrStore, got %v", err)
		}
		if info, _ := s.Selected(); info.UID != "RINCON_1" {
			t.Errorf("expected RINCON_1 to stay selected, got %q", info.UID)
		}
	})

	t.Run("Change Clears Speaker Data", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{Creator: "a", Title: "b", URI: "u"}}
		s, _, _ := setupSession(t, kitchen, tu.NewMockSpeaker("RINCON_2", "Office"))
		ctx := context.Background()

		s.SelectSpeaker("RINCON_1")
		s.RefreshQueue(ctx)
		s.RefreshNowPlaying(ctx)

		s.SelectSpeaker("RINCON_2")
		if s.QueueLoaded() || s.Queue() != nil || s.NowPlaying() != nil || s.Volume() != 0 {
			t.Error("expected speaker data to be cleared")
		}
	})
}

func TestClearAndRestoreSelection(t *testing.T) {
	t.Run("Clear Unsets Last Selected", func(t *testing.T) {
		s, store, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		s.SelectSpeaker("RINCON_1")

		if err := s.ClearSelection(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.State() != SpeakersKnown {
			t.Errorf("expected SpeakersKnown, got %s", s.State())
		}
		if _, ok, _ := store.GetConfig(models.KeyLastSelected); ok {
			t.Error("expected last_selected to be unset")
		}
	})

	t.Run("Restore Known Speaker", func(t *testing.T) {
		s, store, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		store.SetConfig(models.KeyLastSelected, "RINCON_1")

		ok, err := s.RestoreSelection()
		if err != nil || !ok {
			t.Fatalf("expected restore, got ok=%v err=%v", ok, err)
		}
		if s.State() != SpeakerSelected {
			t.Errorf("expected SpeakerSelected, got %s", s.State())
		}
	})

	t.Run("Restore Absent Speaker", func(t *testing.T) {
		s, store, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		store.SetConfig(models.KeyLastSelected, "RINCON_7")

		ok, err := s.RestoreSelection()
		if err != nil || ok {
			t.Errorf("expected no restore, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Restore Nothing Saved", func(t *testing.T) {
		s, _, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))

		if ok, err := s.RestoreSelection(); err != nil || ok {
			t.Errorf("expected no restore, got ok=%v err=%v", ok, err)
		}
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires Selection", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)

		if _, err := s.RefreshNowPlaying(ctx); !errors.Is(err, shared.ErrNoSelection) {
			t.Errorf("expected ErrNoSelection, got %v", err)
		}
		if _, err := s.RefreshQueue(ctx); !errors.Is(err, shared.ErrNoSelection) {
			t.Errorf("expected ErrNoSelection, got %v", err)
		}
		if kitchen.TotalCalls() != 0 {
			t.Errorf("expected no calls, got %d", kitchen.TotalCalls())
		}
	})

	t.Run("Now Playing", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")

		track, err := s.RefreshNowPlaying(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Title != "Sinnerman" || s.Volume() != 25 {
			t.Errorf("unexpected now playing %+v volume %d", track, s.Volume())
		}
	})

	t.Run("Now Playing Failure Keeps Previous", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshNowPlaying(ctx)

		kitchen.Err = errors.New("timeout")
		_, err := s.RefreshNowPlaying(ctx)
		if !errors.Is(err, shared.ErrSpeakerCommunication) {
			t.Errorf("expected ErrSpeakerCommunication, got %v", err)
		}
		if np := s.NowPlaying(); np == nil || np.Title != "Sinnerman" {
			t.Errorf("expected previous now playing, got %+v", np)
		}
	})

	t.Run("Queue Replaced Wholesale", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{URI: "a"}, {URI: "b"}, {URI: "c"}}
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshQueue(ctx)

		kitchen.Items = []models.QueueItem{{URI: "z"}}
		items, err := s.RefreshQueue(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 1 || items[0].URI != "z" {
			t.Errorf("expected queue [z], got %+v", items)
		}
	})

	t.Run("Queue Failure Keeps Previous", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{URI: "a"}}
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshQueue(ctx)

		kitchen.Err = errors.New("timeout")
		if _, err := s.RefreshQueue(ctx); !errors.Is(err, shared.ErrSpeakerCommunication) {
			t.Errorf("expected ErrSpeakerCommunication, got %v", err)
		}
		if !s.QueueLoaded() || len(s.Queue()) != 1 {
			t.Error("expected previous queue to be kept")
		}
	})

	t.Run("Queue Never Loaded Stays Unloaded On Failure", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")

		kitchen.Err = errors.New("timeout")
		s.RefreshQueue(ctx)
		if s.QueueLoaded() {
			t.Error("expected queue to stay unloaded")
		}
	})
}

func TestLocatePlayingItem(t *testing.T) {
	kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
	kitchen.Items = []models.QueueItem{{URI: "a"}, {URI: "b"}, {URI: "a"}}
	s, _, _ := setupSession(t, kitchen)
	s.SelectSpeaker("RINCON_1")
	s.RefreshQueue(context.Background())

	tests := []struct {
		name  string
		uri   string
		index int
		found bool
	}{
		{"First Match Wins", "a", 0, true},
		{"Second Item", "b", 1, true},
		{"Missing", "c", -1, false},
		{"Empty URI", "", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, found := s.LocatePlayingItem(tt.uri)
			if index != tt.index || found != tt.found {
				t.Errorf("LocatePlayingItem(%q) = (%d, %v), want (%d, %v)", tt.uri, index, found, tt.index, tt.found)
			}
		})
	}
}

func TestIssueTransportCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("No Selection Makes No Calls", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)

		for _, cmd := range []Command{Play, Pause, Next, Previous} {
			if _, err := s.IssueTransportCommand(ctx, cmd); !errors.Is(err, shared.ErrNoSelection) {
				t.Errorf("%s: expected ErrNoSelection, got %v", cmd, err)
			}
		}
		if kitchen.TotalCalls() != 0 {
			t.Errorf("expected no calls, got %d", kitchen.TotalCalls())
		}
	})

	t.Run("Delegates And Refreshes", func(t *testing.T) {
		tests := []struct {
			cmd  Command
			call string
		}{
			{Play, "Play"},
			{Pause, "Pause"},
			{Next, "Next"},
			{Previous, "Previous"},
		}

		for _, tt := range tests {
			t.Run(tt.cmd.String(), func(t *testing.T) {
				kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
				kitchen.Items = []models.QueueItem{{URI: "a"}}
				s, _, _ := setupSession(t, kitchen)
				s.SelectSpeaker("RINCON_1")
				s.RefreshQueue(ctx)

				track, err := s.IssueTransportCommand(ctx, tt.cmd)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if kitchen.Calls[tt.call] != 1 {
					t.Errorf("expected one %s call, got %d", tt.call, kitchen.Calls[tt.call])
				}
				if track == nil || kitchen.Calls["CurrentTrack"] != 1 {
					t.Error("expected now playing to be refreshed")
				}
				if kitchen.Calls["Queue"] != 1 {
					t.Error("expected queue to be left alone")
				}
			})
		}
	})

	t.Run("Delegate Failure", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		kitchen.Err = errors.New("unreachable")

		if _, err := s.IssueTransportCommand(ctx, Next); !errors.Is(err, shared.ErrSpeakerCommunication) {
			t.Errorf("expected ErrSpeakerCommunication, got %v", err)
		}
	})

	t.Run("Unknown Command", func(t *testing.T) {
		s, _, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		s.SelectSpeaker("RINCON_1")

		if _, err := s.IssueTransportCommand(ctx, Command(42)); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{"play", Play, false},
		{"PAUSE", Pause, false},
		{"next", Next, false},
		{"previous", Previous, false},
		{"stop", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCommand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCommand(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSetVolume(t *testing.T) {
	ctx := context.Background()

	t.Run("Out Of Range", func(t *testing.T) {
		for _, level := range []int{101, -1} {
			kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
			s, _, _ := setupSession(t, kitchen)
			s.SelectSpeaker("RINCON_1")

			if err := s.SetVolume(ctx, level); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("SetVolume(%d): expected ErrValidation, got %v", level, err)
			}
			if kitchen.TotalCalls() != 0 {
				t.Errorf("SetVolume(%d): expected no calls, got %d", level, kitchen.TotalCalls())
			}
		}
	})

	t.Run("No Selection", func(t *testing.T) {
		s, _, _ := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))
		if err := s.SetVolume(ctx, 50); !errors.Is(err, shared.ErrNoSelection) {
			t.Errorf("expected ErrNoSelection, got %v", err)
		}
	})

	t.Run("Sets Once Without Refetch", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")

		if err := s.SetVolume(ctx, 50); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(kitchen.VolumeSets) != 1 || kitchen.VolumeSets[0] != 50 {
			t.Errorf("expected exactly one SetVolume(50), got %v", kitchen.VolumeSets)
		}
		if kitchen.Calls["Volume"] != 0 {
			t.Error("expected no volume re-fetch")
		}
		if s.Volume() != 50 {
			t.Errorf("expected volume 50, got %d", s.Volume())
		}
	})

	t.Run("Bounds Are Inclusive", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")

		for _, level := range []int{0, 100} {
			if err := s.SetVolume(ctx, level); err != nil {
				t.Errorf("SetVolume(%d): expected no error, got %v", level, err)
			}
		}
	})

	t.Run("Failure Keeps Volume", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshNowPlaying(ctx)

		kitchen.Err = errors.New("unreachable")
		if err := s.SetVolume(ctx, 80); !errors.Is(err, shared.ErrSpeakerCommunication) {
			t.Errorf("expected ErrSpeakerCommunication, got %v", err)
		}
		if s.Volume() != 25 {
			t.Errorf("expected volume 25, got %d", s.Volume())
		}
	})
}

func TestPlayFromQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays Loaded Item", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{URI: "a"}, {URI: "b"}}
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshQueue(ctx)

		if _, err := s.PlayFromQueue(ctx, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(kitchen.QueueStarts) != 1 || kitchen.QueueStarts[0] != 1 {
			t.Errorf("expected PlayFromQueue(1), got %v", kitchen.QueueStarts)
		}
	})

	t.Run("Rejects Bad Index", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Items = []models.QueueItem{{URI: "a"}}
		s, _, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")

		if _, err := s.PlayFromQueue(ctx, 0); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation before queue load, got %v", err)
		}

		s.RefreshQueue(ctx)
		for _, index := range []int{-1, 1} {
			if _, err := s.PlayFromQueue(ctx, index); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("PlayFromQueue(%d): expected ErrValidation, got %v", index, err)
			}
		}
		if len(kitchen.QueueStarts) != 0 {
			t.Errorf("expected no queue starts, got %v", kitchen.QueueStarts)
		}
	})
}

func TestAlbumArt(t *testing.T) {
	ctx := context.Background()

	t.Run("Nothing Playing", func(t *testing.T) {
		s, _, fetcher := setupSession(t, tu.NewMockSpeaker("RINCON_1", "Kitchen"))

		image, err := s.AlbumArt(ctx)
		if err != nil || image != nil {
			t.Errorf("expected no art, got %v %v", image, err)
		}
		if fetcher.Calls != 0 {
			t.Error("expected no fetch")
		}
	})

	t.Run("Fetches Once Then Uses Cache", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Track.AlbumArtURL = "http://192.168.1.10:1400/getaa?s=1"
		s, store, fetcher := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshNowPlaying(ctx)

		for range 2 {
			image, err := s.AlbumArt(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !bytes.Equal(image, []byte("art")) {
				t.Errorf("unexpected image %q", image)
			}
		}
		if fetcher.Calls != 1 {
			t.Errorf("expected 1 fetch, got %d", fetcher.Calls)
		}

		cached, ok, _ := store.GetAlbumArt(kitchen.Track.URI)
		if !ok || !bytes.Equal(cached, []byte("art")) {
			t.Error("expected art cached under the track URI")
		}
	})

	t.Run("Fetch Failure", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Track.AlbumArtURL = "http://192.168.1.10:1400/getaa?s=1"
		s, store, fetcher := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshNowPlaying(ctx)
		fetcher.Err = errors.New("404")

		if _, err := s.AlbumArt(ctx); !errors.Is(err, shared.ErrSpeakerCommunication) {
			t.Errorf("expected ErrSpeakerCommunication, got %v", err)
		}
		if _, ok, _ := store.GetAlbumArt(kitchen.Track.URI); ok {
			t.Error("expected nothing cached")
		}
	})

	t.Run("Closed Store Still Returns Art", func(t *testing.T) {
		kitchen := tu.NewMockSpeaker("RINCON_1", "Kitchen")
		kitchen.Track.AlbumArtURL = "http://192.168.1.10:1400/getaa?s=1"
		s, store, _ := setupSession(t, kitchen)
		s.SelectSpeaker("RINCON_1")
		s.RefreshNowPlaying(ctx)
		store.Close()

		image, err := s.AlbumArt(ctx)
		if err != nil || !bytes.Equal(image, []byte("art")) {
			t.Errorf("expected fetched art, got %q %v", image, err)
		}
	})
}

func TestLayout(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		s, _, _ := setupSession(t)
		want := models.Layout{
			Geometry: "1024x600+40+40",
			Sashes:   []models.Sash{{Index: 0, X: 300, Y: 1}, {Index: 1, X: 700, Y: 1}},
		}

		if err := s.SaveLayout(want); err != nil {
			t.Fatalf("failed to save layout: %v", err)
		}
		got, err := s.LoadLayout()
		if err != nil {
			t.Fatalf("failed to load layout: %v", err)
		}
		if got.Geometry != want.Geometry || len(got.Sashes) != 2 || got.Sashes[1] != want.Sashes[1] {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("Empty Store", func(t *testing.T) {
		s, _, _ := setupSession(t)

		layout, err := s.LoadLayout()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if layout.Geometry != "" || layout.Sashes != nil {
			t.Errorf("expected zero layout, got %+v", layout)
		}
	})

	t.Run("Store Failure Surfaces", func(t *testing.T) {
		s, store, _ := setupSession(t)
		store.Close()

		if err := s.SaveLayout(models.Layout{Geometry: "1x1"}); !errors.Is(err, shared.ErrStore) {
			t.Errorf("expected ErrStore, got %v", err)
		}
		if _, err := s.LoadLayout(); !errors.Is(err, shared.ErrStore) {
			t.Errorf("expected ErrStore, got %v", err)
		}
	})
}

func TestSelectionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SoCo-Tk.sqlite")

	first, err := repositories.Initialize(path, shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	s := New(first, nil, nil, shared.NewLogger(io.Discard))
	s.LoadSpeakers(asSpeakers([]*tu.MockSpeaker{tu.NewMockSpeaker("RINCON_1", "Kitchen")}))
	if err := s.SelectSpeaker("RINCON_1"); err != nil {
		t.Fatalf("failed to select: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	second := openStore(t, path)
	restarted := New(second, nil, nil, shared.NewLogger(io.Discard))
	restarted.LoadSpeakers(asSpeakers([]*tu.MockSpeaker{tu.NewMockSpeaker("RINCON_1", "Kitchen")}))

	ok, err := restarted.RestoreSelection()
	if err != nil || !ok {
		t.Fatalf("expected selection restored, got ok=%v err=%v", ok, err)
	}
	if info, _ := restarted.Selected(); info.UID != "RINCON_1" {
		t.Errorf("expected RINCON_1, got %q", info.UID)
	}
}
