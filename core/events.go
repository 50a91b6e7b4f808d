package core

// Subject uniquely identifies the transfer an event concerns. The same
// friend and file number pair can exist once per direction, so all three
// fields participate in routing.
type Subject struct {
	FriendID  uint32
	FileNum   uint32
	Direction Direction
}

// Event is a notification from the transport layer about a single transfer.
type Event interface {
	// Subject returns the transfer this event concerns.
	Subject() Subject
}

// ProgressEvent reports the current byte counts of a running transfer.
// FileSize is repeated on every event because the transport layer may
// correct it after the initial announcement.
type ProgressEvent struct {
	Sub       Subject
	FileSize  uint64
	BytesSent uint64
}

// CancelledEvent reports that the transfer was cancelled, either by the
// remote peer or by the transport layer itself.
type CancelledEvent struct {
	Sub Subject
}

// FinishedEvent reports that the transfer completed. FilePath is the
// destination file for incoming transfers.
type FinishedEvent struct {
	Sub      Subject
	FilePath string
}

// AcceptedEvent reports that the transfer was accepted and is now running.
// It is also delivered when a paused transfer resumes.
type AcceptedEvent struct {
	Sub Subject
}

// RemotePauseEvent reports a change of the remote peer's pause state.
type RemotePauseEvent struct {
	Sub    Subject
	Paused bool
}

// PausedEvent reports that the transfer was paused.
type PausedEvent struct {
	Sub Subject
}

func (e ProgressEvent) Subject() Subject    { return e.Sub }
func (e CancelledEvent) Subject() Subject   { return e.Sub }
func (e FinishedEvent) Subject() Subject    { return e.Sub }
func (e AcceptedEvent) Subject() Subject    { return e.Sub }
func (e RemotePauseEvent) Subject() Subject { return e.Sub }
func (e PausedEvent) Subject() Subject      { return e.Sub }
