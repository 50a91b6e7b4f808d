package filetransfer

import (
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/master-passeli/qTox/core"
)

// State represents the lifecycle state of a tracked transfer.
type State uint8

const (
	// StatePending indicates the transfer has been announced but not accepted.
	StatePending State = iota
	// StateProcessing indicates the transfer is actively moving data.
	StateProcessing
	// StatePaused indicates the transfer is paused on this side.
	StatePaused
	// StateCanceled indicates the transfer was cancelled. Terminal.
	StateCanceled
	// StateFinished indicates the transfer completed. Terminal.
	StateFinished
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StatePaused:
		return "paused"
	case StateCanceled:
		return "canceled"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Prompter supplies the user-interaction primitives needed when accepting an
// incoming transfer. Implementations belong to the UI shell.
type Prompter interface {
	// SaveFileName asks the user for a destination path, offering suggested
	// as the default. ok is false when the user dismisses the dialog.
	SaveFileName(suggested string) (path string, ok bool)
	// WarnNotWritable tells the user the chosen path cannot be written.
	WarnNotWritable(path string)
}

// idCounter hands out widget identifiers used to namespace the resource
// names embedded in rendered HTML. Identifiers are never reused for
// transfer correlation.
var idCounter atomic.Uint32

// Instance tracks the state of one file transfer for display in the chat
// log. It is not safe for concurrent use; the host UI loop delivers events
// and user actions on a single goroutine.
type Instance struct {
	id        uint32
	friendID  uint32
	fileNum   uint32
	direction core.Direction
	fileName  string

	state        State
	remotePaused bool

	lastUpdate    time.Time
	lastBytesSent uint64

	size  string
	speed string
	eta   string

	pic      image.Image
	savePath string

	tox            core.Core
	prompter       Prompter
	dispatcher     *core.Dispatcher
	timeProvider   TimeProvider
	saveDirectory  string
	previewEnabled bool
	stateUpdated   func()
}

// New creates an instance tracking the transfer described by file. For
// outgoing transfers an image preview is decoded opportunistically from
// file.Source.
func New(file core.File, tox core.Core, prompter Prompter) *Instance {
	tp := defaultTimeProvider
	inst := &Instance{
		id:             idCounter.Add(1),
		friendID:       file.FriendID,
		fileNum:        file.FileNum,
		direction:      file.Direction,
		fileName:       file.Name,
		state:          StatePending,
		lastUpdate:     tp.Now(),
		size:           HumanReadableSize(file.Size),
		speed:          "0B/s",
		eta:            "00:00",
		tox:            tox,
		prompter:       prompter,
		timeProvider:   tp,
		previewEnabled: true,
	}

	if file.Direction == core.Sending && file.Source != nil {
		if img, ok := previewFromReader(file.Source); ok {
			inst.pic = img
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":  "New",
		"id":        inst.id,
		"friend_id": file.FriendID,
		"file_num":  file.FileNum,
		"direction": file.Direction,
		"file_name": file.Name,
		"file_size": file.Size,
	}).Info("File transfer instance created")

	return inst
}

// ID returns the widget identifier used in rendered resource names.
func (i *Instance) ID() uint32 { return i.id }

// State returns the current transfer state.
func (i *Instance) State() State { return i.state }

// SavePath returns the destination chosen for an incoming transfer, or ""
// before acceptance.
func (i *Instance) SavePath() string { return i.savePath }

// SetTimeProvider sets a custom time provider for deterministic testing.
// The last progress sample time is reset to the provider's current time.
func (i *Instance) SetTimeProvider(tp TimeProvider) {
	i.timeProvider = tp
	i.lastUpdate = tp.Now()
}

// SetSaveDirectory sets the directory offered as the default location when
// accepting an incoming transfer.
func (i *Instance) SetSaveDirectory(dir string) {
	i.saveDirectory = dir
}

// SetPreviewEnabled toggles image preview decoding for this instance.
// Previews already decoded are kept.
func (i *Instance) SetPreviewEnabled(enabled bool) {
	i.previewEnabled = enabled
}

// OnStateUpdated registers the callback invoked whenever displayed state
// changes and the chat log should re-render this transfer.
func (i *Instance) OnStateUpdated(callback func()) {
	i.stateUpdated = callback
}

// Attach subscribes the instance to transfer events on d. The instance
// detaches itself when it reaches a terminal state.
func (i *Instance) Attach(d *core.Dispatcher) {
	i.dispatcher = d
	d.Subscribe(i.subject(), i)
}

// HandleFileEvent routes a transport event to the matching handler.
// Implements core.Listener.
func (i *Instance) HandleFileEvent(ev core.Event) {
	switch e := ev.(type) {
	case core.ProgressEvent:
		i.OnFileTransferInfo(e)
	case core.CancelledEvent:
		i.OnFileTransferCancelled(e)
	case core.FinishedEvent:
		i.OnFileTransferFinished(e)
	case core.AcceptedEvent:
		i.OnFileTransferAccepted(e)
	case core.RemotePauseEvent:
		i.OnFileTransferRemotePausedUnpaused(e)
	case core.PausedEvent:
		i.OnFileTransferPaused(e)
	}
}

func (i *Instance) subject() core.Subject {
	return core.Subject{FriendID: i.friendID, FileNum: i.fileNum, Direction: i.direction}
}

// matches reports whether an event subject concerns this transfer. Events
// for other transfers are ignored by every handler.
func (i *Instance) matches(sub core.Subject) bool {
	return sub == i.subject()
}

func (i *Instance) terminal() bool {
	return i.state == StateCanceled || i.state == StateFinished
}

// detach unsubscribes the instance from further transport events.
func (i *Instance) detach() {
	if i.dispatcher != nil {
		i.dispatcher.Unsubscribe(i.subject(), i)
		i.dispatcher = nil
	}
}

func (i *Instance) emitStateUpdated() {
	if i.stateUpdated != nil {
		i.stateUpdated()
	}
}

// OnFileTransferInfo recomputes the displayed size, speed and ETA from a
// progress event. Events arriving within the same wall-clock second as the
// previous sample are dropped. A progress cycle whose measured rate is zero
// updates the displayed size only and leaves the sample bookkeeping alone.
func (i *Instance) OnFileTransferInfo(ev core.ProgressEvent) {
	if !i.matches(ev.Sub) || i.terminal() {
		return
	}

	now := i.timeProvider.Now()
	elapsed := int64(now.Sub(i.lastUpdate) / time.Second)
	if elapsed <= 0 {
		return
	}

	delta := int64(ev.BytesSent) - int64(i.lastBytesSent)
	if delta < 0 {
		logrus.WithFields(logrus.Fields{
			"function":   "OnFileTransferInfo",
			"friend_id":  i.friendID,
			"file_num":   i.fileNum,
			"bytes_sent": ev.BytesSent,
			"last_bytes": i.lastBytesSent,
		}).Warn("Negative transfer speed")
		delta = 0
	}

	rate := delta / elapsed
	i.size = HumanReadableSize(ev.FileSize)
	if rate == 0 {
		return
	}

	i.speed = HumanReadableSize(uint64(rate)) + "/s"
	i.eta = formatETA((int64(ev.FileSize) - int64(ev.BytesSent)) / rate)
	i.lastUpdate = now
	i.lastBytesSent = ev.BytesSent
	i.emitStateUpdated()
}

// OnFileTransferCancelled marks the transfer cancelled and detaches from
// further events. Terminal.
func (i *Instance) OnFileTransferCancelled(ev core.CancelledEvent) {
	if !i.matches(ev.Sub) || i.terminal() {
		return
	}

	i.detach()
	i.state = StateCanceled

	logrus.WithFields(logrus.Fields{
		"function":  "OnFileTransferCancelled",
		"friend_id": i.friendID,
		"file_num":  i.fileNum,
	}).Info("File transfer cancelled")

	i.emitStateUpdated()
}

// OnFileTransferFinished marks the transfer finished and detaches from
// further events. On the receiving side an image preview is decoded from
// the completed file when it is small enough. Terminal.
func (i *Instance) OnFileTransferFinished(ev core.FinishedEvent) {
	if !i.matches(ev.Sub) || i.terminal() {
		return
	}

	i.detach()

	if i.direction == core.Receiving && i.previewEnabled {
		path := ev.FilePath
		if path == "" {
			path = i.savePath
		}
		if img, ok := previewFromFile(path); ok {
			i.pic = img
		}
	}

	i.state = StateFinished

	logrus.WithFields(logrus.Fields{
		"function":  "OnFileTransferFinished",
		"friend_id": i.friendID,
		"file_num":  i.fileNum,
		"file_name": i.fileName,
	}).Info("File transfer finished")

	i.emitStateUpdated()
}

// OnFileTransferAccepted moves the transfer to the processing state and
// clears any remote pause. Also delivered when a paused transfer resumes.
func (i *Instance) OnFileTransferAccepted(ev core.AcceptedEvent) {
	if !i.matches(ev.Sub) || i.terminal() {
		return
	}

	i.remotePaused = false
	i.state = StateProcessing
	i.emitStateUpdated()
}

// OnFileTransferRemotePausedUnpaused records the remote peer's pause state,
// which is tracked independently of the local transfer state.
func (i *Instance) OnFileTransferRemotePausedUnpaused(ev core.RemotePauseEvent) {
	if !i.matches(ev.Sub) || i.terminal() {
		return
	}

	i.remotePaused = ev.Paused
	i.emitStateUpdated()
}

// OnFileTransferPaused moves the transfer to the paused state.
func (i *Instance) OnFileTransferPaused(ev core.PausedEvent) {
	if !i.matches(ev.Sub) || i.terminal() {
		return
	}

	i.state = StatePaused
	i.emitStateUpdated()
}

// CancelTransfer issues a cancel command and immediately marks the transfer
// cancelled, without waiting for transport confirmation.
func (i *Instance) CancelTransfer() {
	if i.terminal() {
		return
	}

	if err := i.tox.CancelFileSend(i.friendID, i.fileNum); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "CancelTransfer",
			"friend_id": i.friendID,
			"file_num":  i.fileNum,
			"error":     err.Error(),
		}).Warn("Cancel command failed")
	}

	i.detach()
	i.state = StateCanceled
	i.emitStateUpdated()
}

// RejectReceive rejects an incoming transfer that has not been accepted
// yet. Calls on the sending side, or after acceptance, are no-ops.
func (i *Instance) RejectReceive() {
	if i.direction != core.Receiving || i.state != StatePending {
		return
	}

	if err := i.tox.RejectFileRecvRequest(i.friendID, i.fileNum); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "RejectReceive",
			"friend_id": i.friendID,
			"file_num":  i.fileNum,
			"error":     err.Error(),
		}).Warn("Reject command failed")
	}

	i.OnFileTransferCancelled(core.CancelledEvent{Sub: i.subject()})
}

// AcceptReceive prompts for a destination path, verifies it is writable
// (re-prompting with a warning until it is, or the dialog is dismissed),
// then accepts the incoming transfer. Valid only on the receiving side
// while the transfer is still pending.
func (i *Instance) AcceptReceive() {
	if i.direction != core.Receiving || i.state != StatePending {
		return
	}

	suggested := filepath.Join(i.saveDirectory, i.fileName)

	var path string
	for {
		chosen, ok := i.prompter.SaveFileName(suggested)
		if !ok || chosen == "" {
			return
		}
		if isWritable(chosen) {
			path = chosen
			break
		}
		i.prompter.WarnNotWritable(chosen)
	}

	i.savePath = path

	if err := i.tox.AcceptFileRecvRequest(i.friendID, i.fileNum, path); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "AcceptReceive",
			"friend_id": i.friendID,
			"file_num":  i.fileNum,
			"path":      path,
			"error":     err.Error(),
		}).Warn("Accept command failed")
	}

	i.state = StateProcessing

	logrus.WithFields(logrus.Fields{
		"function":  "AcceptReceive",
		"friend_id": i.friendID,
		"file_num":  i.fileNum,
		"save_path": path,
	}).Info("Incoming file transfer accepted")

	i.emitStateUpdated()
}

// PauseResume asks the transport layer to toggle the transfer's pause
// state. The local state is not changed here; the transition is observed
// later through a paused or accepted event. Remotely paused transfers
// cannot be toggled locally.
func (i *Instance) PauseResume() {
	if i.state != StateProcessing && i.state != StatePaused {
		return
	}
	if i.remotePaused {
		return
	}

	var err error
	if i.direction == core.Sending {
		err = i.tox.PauseResumeFileSend(i.friendID, i.fileNum)
	} else {
		err = i.tox.PauseResumeFileRecv(i.friendID, i.fileNum)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "PauseResume",
			"friend_id": i.friendID,
			"file_num":  i.fileNum,
			"direction": i.direction,
			"error":     err.Error(),
		}).Warn("Pause/resume command failed")
	}

	i.emitStateUpdated()
}

// PressButton dispatches an opaque button code from rendered HTML to the
// matching command. Button A is the cancel/reject button, button B the
// pause/resume/accept button. No dispatch happens once terminal.
func (i *Instance) PressButton(code string) {
	if i.terminal() {
		return
	}

	if i.direction == core.Sending {
		switch code {
		case ButtonA:
			i.CancelTransfer()
		case ButtonB:
			i.PauseResume()
		}
		return
	}

	switch code {
	case ButtonA:
		if i.state == StatePending {
			i.RejectReceive()
		} else {
			i.CancelTransfer()
		}
	case ButtonB:
		if i.state == StatePending {
			i.AcceptReceive()
		} else {
			i.PauseResume()
		}
	}
}

// isWritable probes whether path can be written by opening it for writing,
// removing the file afterwards if it did not exist before. The probe is not
// atomic with the later write; a path can stop being writable in between.
func isWritable(path string) bool {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return false
	}
	if closeErr := f.Close(); closeErr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "isWritable",
			"path":     path,
			"error":    closeErr.Error(),
		}).Warn("Failed to close writability probe file")
	}
	if !existed {
		if rmErr := os.Remove(path); rmErr != nil {
			logrus.WithFields(logrus.Fields{
				"function": "isWritable",
				"path":     path,
				"error":    rmErr.Error(),
			}).Warn("Failed to remove writability probe file")
		}
	}
	return true
}
