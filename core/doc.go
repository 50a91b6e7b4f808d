// Package core defines the boundary between the file transfer UI layer and
// the Tox transport layer.
//
// The transport side is consumed through the Core interface, which carries
// the file transfer commands a user can issue (cancel, reject, accept,
// pause/resume). Notifications flowing the other way are modeled as typed
// events, each tagged with a Subject identifying the transfer it concerns.
//
// Events are delivered through a Dispatcher keyed by subject, so a listener
// only ever receives events for the transfer it subscribed to:
//
//	d := core.NewDispatcher()
//	d.Subscribe(core.Subject{FriendID: 1, FileNum: 3, Direction: core.Receiving}, listener)
//	d.Publish(core.ProgressEvent{Sub: sub, FileSize: 4096, BytesSent: 1024})
package core
