package filetransfer

import (
	"embed"
	"sync"

	"github.com/sirupsen/logrus"
)

//go:embed icons/*.png
var iconFS embed.FS

// IconSet holds the PNG button images embedded into rendered transfer
// forms. Hosts with their own artwork can supply a custom set to
// RenderHTML; a zero-value field renders as an empty image.
type IconSet struct {
	Stop        []byte
	Pause       []byte
	PauseGrey   []byte
	Resume      []byte
	Accept      []byte
	EmptyLRed   []byte
	EmptyRRed   []byte
	EmptyLGreen []byte
	EmptyRGreen []byte
}

var (
	defaultIconsOnce sync.Once
	defaultIcons     *IconSet
)

// DefaultIcons returns the embedded default icon set.
func DefaultIcons() *IconSet {
	defaultIconsOnce.Do(func() {
		defaultIcons = &IconSet{
			Stop:        mustIcon("icons/stop.png"),
			Pause:       mustIcon("icons/pause.png"),
			PauseGrey:   mustIcon("icons/pause-grey.png"),
			Resume:      mustIcon("icons/resume.png"),
			Accept:      mustIcon("icons/accept.png"),
			EmptyLRed:   mustIcon("icons/empty-l-red.png"),
			EmptyRRed:   mustIcon("icons/empty-r-red.png"),
			EmptyLGreen: mustIcon("icons/empty-l-green.png"),
			EmptyRGreen: mustIcon("icons/empty-r-green.png"),
		}
	})
	return defaultIcons
}

func mustIcon(name string) []byte {
	data, err := iconFS.ReadFile(name)
	if err != nil {
		// Embedded assets are read at build time; a miss here is a broken build.
		logrus.WithFields(logrus.Fields{
			"function": "mustIcon",
			"icon":     name,
			"error":    err.Error(),
		}).Error("Missing embedded icon")
	}
	return data
}
