// Package filetransfer implements the chat-log widget model for a single
// file transfer between two Tox friends.
//
// An Instance tracks one transfer (send or receive): it consumes the
// transport layer's progress/pause/cancel/finish events, maintains the
// transfer state machine, derives the human-readable size, speed and ETA
// strings shown in the chat log, and forwards user actions (accept, reject,
// cancel, pause/resume) back to the transport layer as commands.
//
// Example:
//
//	inst := filetransfer.New(file, tox, prompter)
//	inst.OnStateUpdated(func() {
//	    html := filetransfer.RenderHTML(inst.Snapshot(), nil)
//	    chatlog.Replace(inst.ID(), html)
//	})
//	inst.Attach(dispatcher)
//
// Rendering is a pure function from an immutable Snapshot to an HTML
// fragment, so the visual form can be tested without a live transfer.
package filetransfer
