package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/session"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/samber/lo"
)

// Pane identifies which list receives navigation keys.
type Pane int

const (
	SpeakersPane Pane = iota
	QueuePane
)

const (
	defaultSash = 36
	minSash     = 20
	maxSash     = 80
	sashStep    = 4
	volumeStep  = 5
	emptyInfo   = "-"
)

// snapshot is what the view renders. It is copied out of the session only
// when no session call is in flight.
type snapshot struct {
	state       session.State
	speakers    []models.SpeakerInfo
	selected    models.SpeakerInfo
	hasSelected bool
	queue       []models.QueueItem
	queueLoaded bool
	playing     int
	nowPlaying  *models.TrackInfo
	volume      int
	art         []byte
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	session     *session.Session
	logger      *log.Logger
	focus       Pane
	speakerList list.Model
	queueList   list.Model
	snap        snapshot
	busy        bool
	status      string
	err         error
	sash        int
	width       int
	height      int
	help        help.Model
	keys        keyMap
}

// NewModel creates a TUI model over sess and restores the saved pane split.
func NewModel(ctx context.Context, sess *session.Session, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Model{
		ctx:         ctx,
		session:     sess,
		logger:      logger,
		speakerList: newList("Speakers"),
		queueList:   newList("Queue"),
		sash:        defaultSash,
		help:        help.New(),
		keys:        newKeyMap(),
	}

	layout, err := sess.LoadLayout()
	if err != nil {
		logger.Warn("could not load layout", "error", err)
	} else if len(layout.Sashes) > 0 {
		m.sash = clampSash(layout.Sashes[0].X)
	}

	m.takeSnapshot(nil)
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

func clampSash(x int) int {
	return max(minSash, min(maxSash, x))
}

// Init discovers speakers and restores the last selection.
func (m *Model) Init() tea.Cmd {
	return m.start("Discovering speakers...", m.discover(true))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleResult(msg)
	}

	return m, nil
}

// View renders the speakers pane beside the now-playing box and queue.
func (m *Model) View() string {
	speakers := m.paneStyle(SpeakersPane).Width(m.sash).Render(m.speakerList.View())

	right := lipgloss.JoinVertical(lipgloss.Left,
		styles.pane.Width(m.rightWidth()).Render(m.renderNowPlaying()),
		m.paneStyle(QueuePane).Width(m.rightWidth()).Render(m.queueList.View()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, speakers, right)
	return fmt.Sprintf("%s\n%s\n%s", body, m.renderStatus(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Busy reports whether a session call is in flight.
func (m *Model) Busy() bool { return m.busy }

// Layout returns the pane split and terminal size as persisted on quit.
func (m *Model) Layout() models.Layout {
	return models.Layout{
		Geometry: fmt.Sprintf("%dx%d", m.width, m.height),
		Sashes:   []models.Sash{{Index: 0, X: m.sash, Y: 0}},
	}
}

func (m *Model) start(status string, cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.status = status
	return cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.saveLayout()
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		if m.focus == SpeakersPane {
			m.focus = QueuePane
		} else {
			m.focus = SpeakersPane
		}
		return m, nil
	case key.Matches(msg, m.keys.shrink):
		m.sash = clampSash(m.sash - sashStep)
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.grow):
		m.sash = clampSash(m.sash + sashStep)
		m.resize()
		return m, nil
	}

	if op, status := m.operation(msg); op != nil {
		if m.busy {
			m.status = "Busy, please wait..."
			return m, nil
		}
		return m, m.start(status, op)
	}

	var cmd tea.Cmd
	if m.focus == SpeakersPane {
		m.speakerList, cmd = m.speakerList.Update(msg)
	} else {
		m.queueList, cmd = m.queueList.Update(msg)
	}
	return m, cmd
}

// operation maps a key onto a session call. It returns nil for navigation keys.
func (m *Model) operation(msg tea.KeyMsg) (tea.Cmd, string) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if m.focus == SpeakersPane {
			if item, ok := m.speakerList.SelectedItem().(speakerItem); ok {
				return m.selectSpeaker(item.info.UID), fmt.Sprintf("Selecting %s...", item.info.Name)
			}
			return nil, ""
		}
		if item, ok := m.queueList.SelectedItem().(queueItem); ok {
			return m.playFromQueue(item.index), fmt.Sprintf("Playing %s...", item.item.Title)
		}
		return nil, ""
	case key.Matches(msg, m.keys.play):
		return m.transport(session.Play), "Play..."
	case key.Matches(msg, m.keys.pause):
		return m.transport(session.Pause), "Pause..."
	case key.Matches(msg, m.keys.next):
		return m.transport(session.Next), "Next..."
	case key.Matches(msg, m.keys.previous):
		return m.transport(session.Previous), "Previous..."
	case key.Matches(msg, m.keys.volUp):
		level := min(100, m.snap.volume+volumeStep)
		return m.setVolume(level), fmt.Sprintf("Volume %d...", level)
	case key.Matches(msg, m.keys.volDown):
		level := max(0, m.snap.volume-volumeStep)
		return m.setVolume(level), fmt.Sprintf("Volume %d...", level)
	case key.Matches(msg, m.keys.refresh):
		return m.refresh(), "Refreshing..."
	case key.Matches(msg, m.keys.discover):
		return m.discover(false), "Discovering speakers..."
	}
	return nil, ""
}

func (m *Model) handleResult(msg Msg) (tea.Model, tea.Cmd) {
	m.busy = false

	art := msg.data.art
	if msg.kind == MsgVolumeSet || msg.data.err != nil {
		art = m.snap.art
	}
	previous := m.snap.selected.UID
	m.takeSnapshot(art)
	if m.snap.selected.UID != previous {
		m.snap.art = msg.data.art
	}

	if msg.data.err != nil {
		m.err = msg.data.err
		m.status = ""
		m.logger.Error("operation failed", "op", msg.data.op, "error", msg.data.err)
		return m, nil
	}

	m.err = nil
	switch {
	case msg.data.note != "":
		m.status = msg.data.note
	default:
		m.status = fmt.Sprintf("%s: done", msg.data.op)
	}
	return m, nil
}

// takeSnapshot copies the session into the view state and rebuilds both lists.
func (m *Model) takeSnapshot(art []byte) {
	s := m.session
	selected, hasSelected := s.Selected()

	snap := snapshot{
		state:       s.State(),
		speakers:    s.Speakers(),
		selected:    selected,
		hasSelected: hasSelected,
		queue:       s.Queue(),
		queueLoaded: s.QueueLoaded(),
		playing:     -1,
		nowPlaying:  s.NowPlaying(),
		volume:      s.Volume(),
		art:         art,
	}
	if snap.nowPlaying != nil {
		if i, ok := s.LocatePlayingItem(snap.nowPlaying.URI); ok {
			snap.playing = i
		}
	}
	m.snap = snap

	m.speakerList.SetItems(lo.Map(snap.speakers, func(info models.SpeakerInfo, _ int) list.Item {
		return speakerItem{info: info, selected: hasSelected && info.UID == selected.UID}
	}))
	m.queueList.Title = "Queue"
	if snap.hasSelected && !snap.queueLoaded {
		m.queueList.Title = "Queue (not loaded)"
	}
	m.queueList.SetItems(lo.Map(snap.queue, func(item models.QueueItem, i int) list.Item {
		return queueItem{item: item, index: i, playing: i == snap.playing}
	}))
	if snap.playing >= 0 {
		m.queueList.Select(snap.playing)
	}
}

func (m *Model) resize() {
	listHeight := max(m.height-6, 4)
	m.speakerList.SetSize(m.sash-2, listHeight)
	m.queueList.SetSize(m.rightWidth()-2, max(listHeight-9, 4))
	m.help.Width = m.width
}

func (m *Model) rightWidth() int {
	return max(m.width-m.sash-6, minSash)
}

func (m *Model) paneStyle(p Pane) lipgloss.Style {
	if m.focus == p {
		return styles.active
	}
	return styles.pane
}

func (m *Model) saveLayout() {
	if err := m.session.SaveLayout(m.Layout()); err != nil {
		m.logger.Error("could not save layout", "error", err)
	}
}

func orEmpty(s string) string {
	if s == "" {
		return emptyInfo
	}
	return s
}

func (m *Model) renderNowPlaying() string {
	switch {
	case m.snap.state == session.NoSpeakers:
		return styles.help.Render("No speakers found, press d to discover")
	case !m.snap.hasSelected:
		return styles.help.Render("No speaker selected")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(models.DisplayName(m.snap.selected)) + "\n")

	np := m.snap.nowPlaying
	if np == nil {
		np = &models.TrackInfo{}
	}

	rows := [][2]string{
		{"Title", orEmpty(np.Title)},
		{"Artist", orEmpty(np.Artist)},
		{"Album", orEmpty(np.Album)},
		{"Position", fmt.Sprintf("%s / %s", shared.FormatDuration(np.Position), shared.FormatDuration(np.Duration))},
		{"Volume", fmt.Sprintf("%d", m.snap.volume)},
		{"Art", m.artLabel()},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n", styles.label.Render(fmt.Sprintf("%-9s", row[0]+":")), row[1]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) artLabel() string {
	if len(m.snap.art) == 0 {
		return emptyInfo
	}
	return fmt.Sprintf("%.1f KB cached", float64(len(m.snap.art))/1024)
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.busy:
		return styles.warn.Render(m.status)
	case m.status != "":
		return styles.ok.Render(m.status)
	default:
		return ""
	}
}

// albumArt loads art for the current track. Failures leave the art blank.
func (m *Model) albumArt() []byte {
	art, err := m.session.AlbumArt(m.ctx)
	if err != nil {
		m.logger.Warn("could not load album art", "error", err)
		return nil
	}
	return art
}

// refreshSpeaker reloads now-playing, queue and art for the selected speaker.
func (m *Model) refreshSpeaker() ([]byte, error) {
	if _, err := m.session.RefreshNowPlaying(m.ctx); err != nil {
		return nil, err
	}
	if _, err := m.session.RefreshQueue(m.ctx); err != nil {
		return nil, err
	}
	return m.albumArt(), nil
}

func (m *Model) discover(restore bool) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Discover(m.ctx); err != nil {
			return speakersLoadedMsg("", nil, err)
		}

		note := fmt.Sprintf("Found %d speakers", len(m.session.Speakers()))
		if !restore {
			return speakersLoadedMsg(note, nil, nil)
		}

		ok, err := m.session.RestoreSelection()
		if err != nil || !ok {
			return speakersLoadedMsg(note, nil, err)
		}

		art, err := m.refreshSpeaker()
		return speakersLoadedMsg(note, art, err)
	}
}

func (m *Model) selectSpeaker(uid string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.SelectSpeaker(uid); err != nil {
			return speakerRefreshedMsg(nil, err)
		}
		art, err := m.refreshSpeaker()
		return speakerRefreshedMsg(art, err)
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		art, err := m.refreshSpeaker()
		return speakerRefreshedMsg(art, err)
	}
}

func (m *Model) transport(cmd session.Command) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.session.IssueTransportCommand(m.ctx, cmd); err != nil {
			return commandSentMsg(cmd.String(), nil, err)
		}
		return commandSentMsg(cmd.String(), m.albumArt(), nil)
	}
}

func (m *Model) playFromQueue(index int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.session.PlayFromQueue(m.ctx, index); err != nil {
			return commandSentMsg("play queue item", nil, err)
		}
		return commandSentMsg("play queue item", m.albumArt(), nil)
	}
}

func (m *Model) setVolume(level int) tea.Cmd {
	return func() tea.Msg {
		return volumeSetMsg(m.session.SetVolume(m.ctx, level))
	}
}
