package core

import "io"

// Direction indicates whether a file transfer is being sent or received.
type Direction uint8

const (
	// Sending represents a file being sent to a friend.
	Sending Direction = iota
	// Receiving represents a file being received from a friend.
	Receiving
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Sending:
		return "sending"
	case Receiving:
		return "receiving"
	default:
		return "unknown"
	}
}

// File describes a single file transfer as reported by the transport layer.
//
// Source is only set for outgoing transfers and points at the data being
// sent. FilePath is only set for incoming transfers once a destination has
// been chosen.
type File struct {
	FriendID  uint32
	FileNum   uint32
	Direction Direction
	Name      string
	Size      uint64
	Source    io.ReadSeeker
	FilePath  string
}

// Subject returns the subject triple identifying this transfer.
func (f File) Subject() Subject {
	return Subject{FriendID: f.FriendID, FileNum: f.FileNum, Direction: f.Direction}
}

// Core is the command surface of the Tox transport layer used by the file
// transfer UI. Calls are fire-and-forget: they return as soon as the command
// has been handed to the transport, and any outcome is reported later as a
// separate event.
type Core interface {
	CancelFileSend(friendID, fileNum uint32) error
	RejectFileRecvRequest(friendID, fileNum uint32) error
	AcceptFileRecvRequest(friendID, fileNum uint32, path string) error
	PauseResumeFileSend(friendID, fileNum uint32) error
	PauseResumeFileRecv(friendID, fileNum uint32) error
}
