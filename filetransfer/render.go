package filetransfer

import (
	"encoding/base64"
	"fmt"
	"html"
	"image"

	"github.com/samber/lo"

	"github.com/master-passeli/qTox/core"
)

// Button codes embedded in rendered HTML and dispatched back through
// Instance.PressButton.
const (
	// ButtonA is the cancel/reject button.
	ButtonA = "btnA"
	// ButtonB is the pause/resume/accept button.
	ButtonB = "btnB"
)

// Snapshot is an immutable view of an instance's displayed state. Rendering
// consumes snapshots only, so the visual form can be produced and tested
// independently of a live transfer.
type Snapshot struct {
	ID           uint32
	Direction    core.Direction
	State        State
	RemotePaused bool
	FileName     string
	Size         string
	Speed        string
	ETA          string
	BytesSent    uint64
	Thumbnail    image.Image
}

// Snapshot captures the instance's current displayed state.
func (i *Instance) Snapshot() Snapshot {
	return Snapshot{
		ID:           i.id,
		Direction:    i.direction,
		State:        i.state,
		RemotePaused: i.remotePaused,
		FileName:     i.fileName,
		Size:         i.size,
		Speed:        i.speed,
		ETA:          i.eta,
		BytesSent:    i.lastBytesSent,
		Thumbnail:    i.pic,
	}
}

// RenderHTML produces the chat-log HTML fragment for a transfer snapshot.
// Non-terminal states render a two-button form on a silver background;
// cancelled and finished transfers render buttonless red and green forms.
// A nil icons argument uses the embedded default icon set.
func RenderHTML(s Snapshot, icons *IconSet) string {
	if icons == nil {
		icons = DefaultIcons()
	}

	switch s.State {
	case StateCanceled, StateFinished:
		return buttonlessForm(s, icons)
	default:
		return twoButtonForm(s, icons)
	}
}

// rightButtonIcon picks the icon for button B from the snapshot: pause
// while processing, resume while paused, accept while a pending receive,
// and a greyed pause while a pending send or whenever the remote peer has
// paused the transfer.
func rightButtonIcon(s Snapshot, icons *IconSet) []byte {
	if s.RemotePaused {
		return icons.PauseGrey
	}
	switch s.State {
	case StateProcessing:
		return icons.Pause
	case StatePaused:
		return icons.Resume
	default:
		return lo.Ternary(s.Direction == core.Sending, icons.PauseGrey, icons.Accept)
	}
}

func twoButtonForm(s Snapshot, icons *IconSet) string {
	imgA := fmt.Sprintf(`<img src="data:ftrans.%d.%s/png;base64,%s">`,
		s.ID, ButtonA, base64.StdEncoding.EncodeToString(icons.Stop))
	imgB := fmt.Sprintf(`<img src="data:ftrans.%d.%s/png;base64,%s">`,
		s.ID, ButtonB, base64.StdEncoding.EncodeToString(rightButtonIcon(s, icons)))

	content := "<p>" + html.EscapeString(s.FileName) + "</p>"
	content += "<p>" + HumanReadableSize(s.BytesSent) + " / " + s.Size +
		"&nbsp;(" + s.Speed + " ETA: " + s.ETA + ")</p>\n"

	return wrapIntoForm(s, content, "silver", imgA, imgB)
}

func buttonlessForm(s Snapshot, icons *IconSet) string {
	theme := lo.Ternary(s.State == StateCanceled, "red", "green")

	left := lo.Ternary(s.State == StateCanceled, icons.EmptyLRed, icons.EmptyLGreen)
	right := lo.Ternary(s.State == StateCanceled, icons.EmptyRRed, icons.EmptyRGreen)

	imgA := `<img src="data:placeholder/png;base64,` + base64.StdEncoding.EncodeToString(left) + `">`
	imgB := `<img src="data:placeholder/png;base64,` + base64.StdEncoding.EncodeToString(right) + `">`

	content := "<p>" + html.EscapeString(s.FileName) + "</p><p>" + s.Size + "</p>"

	return wrapIntoForm(s, content, theme, imgA, imgB)
}

// miniature renders the optional thumbnail cell, or "" when no preview was
// decoded for the transfer.
func miniature(s Snapshot, theme string) string {
	if s.Thumbnail == nil {
		return ""
	}

	res := "<td><div class=" + theme + ">\n"
	res += fmt.Sprintf(`<img src="data:mini.%d/png;base64,%s">`, s.ID, imageToBase64PNG(s.Thumbnail))
	res += "</div></td>\n"
	return res
}

func wrapIntoForm(s Snapshot, content, theme, imgA, imgB string) string {
	res := "<table width=100% cellspacing=\"0\">\n"
	res += "<tr valign=middle>\n"
	res += miniature(s, theme)
	res += "<td width=100%>\n"
	res += "<div class=" + theme + ">"
	res += content
	res += "</div>\n"
	res += "</td>\n"
	res += "<td>\n"
	res += "<div class=button>" + imgA + "<br>" + imgB + "</div>\n"
	res += "</td>\n"
	res += "</tr>\n"
	res += "</table>\n"

	return res
}
