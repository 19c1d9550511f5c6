package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/socotk/internal/models"
)

var (
	_ list.Item = speakerItem{}
	_ list.Item = queueItem{}
)

// speakerItem wraps [models.SpeakerInfo] to implement [list.Item].
type speakerItem struct {
	info     models.SpeakerInfo
	selected bool
}

func (i speakerItem) FilterValue() string { return i.info.Name }
func (i speakerItem) Title() string {
	if i.selected {
		return "● " + models.DisplayName(i.info)
	}
	return models.DisplayName(i.info)
}
func (i speakerItem) Description() string { return i.info.UID }

// queueItem wraps [models.QueueItem] to implement [list.Item].
type queueItem struct {
	item    models.QueueItem
	index   int
	playing bool
}

func (i queueItem) FilterValue() string { return i.item.Label() }
func (i queueItem) Title() string {
	title := fmt.Sprintf("%d. %s", i.index+1, i.item.Title)
	if i.playing {
		title = "▶ " + title
	}
	return title
}
func (i queueItem) Description() string { return i.item.Creator }
