package filetransfer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/master-passeli/qTox/core"
)

// TestInstanceStateTransitions exercises every transition of the transfer
// state machine, including the terminal states ignoring further input.
func TestInstanceStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		direction    core.Direction
		initialState State
		operation    string
		wantState    State
	}{
		// Transitions driven by transport events.
		{name: "pending_accepted_starts_processing", direction: core.Receiving, initialState: StatePending, operation: "onAccepted", wantState: StateProcessing},
		{name: "processing_pauses", direction: core.Sending, initialState: StateProcessing, operation: "onPaused", wantState: StatePaused},
		{name: "paused_resumes_via_accepted", direction: core.Sending, initialState: StatePaused, operation: "onAccepted", wantState: StateProcessing},
		{name: "pending_cancelled_by_peer", direction: core.Receiving, initialState: StatePending, operation: "onCancelled", wantState: StateCanceled},
		{name: "processing_cancelled_by_peer", direction: core.Sending, initialState: StateProcessing, operation: "onCancelled", wantState: StateCanceled},
		{name: "paused_cancelled_by_peer", direction: core.Sending, initialState: StatePaused, operation: "onCancelled", wantState: StateCanceled},
		{name: "processing_finishes", direction: core.Sending, initialState: StateProcessing, operation: "onFinished", wantState: StateFinished},
		{name: "paused_finishes", direction: core.Receiving, initialState: StatePaused, operation: "onFinished", wantState: StateFinished},

		// Terminal states ignore all further events.
		{name: "canceled_ignores_accepted", direction: core.Sending, initialState: StateCanceled, operation: "onAccepted", wantState: StateCanceled},
		{name: "canceled_ignores_paused", direction: core.Sending, initialState: StateCanceled, operation: "onPaused", wantState: StateCanceled},
		{name: "canceled_ignores_finished", direction: core.Sending, initialState: StateCanceled, operation: "onFinished", wantState: StateCanceled},
		{name: "finished_ignores_accepted", direction: core.Receiving, initialState: StateFinished, operation: "onAccepted", wantState: StateFinished},
		{name: "finished_ignores_paused", direction: core.Receiving, initialState: StateFinished, operation: "onPaused", wantState: StateFinished},
		{name: "finished_ignores_cancelled", direction: core.Receiving, initialState: StateFinished, operation: "onCancelled", wantState: StateFinished},

		// Transitions driven by user commands.
		{name: "pending_user_cancel", direction: core.Sending, initialState: StatePending, operation: "cancel", wantState: StateCanceled},
		{name: "processing_user_cancel", direction: core.Sending, initialState: StateProcessing, operation: "cancel", wantState: StateCanceled},
		{name: "paused_user_cancel", direction: core.Receiving, initialState: StatePaused, operation: "cancel", wantState: StateCanceled},
		{name: "finished_user_cancel_noop", direction: core.Sending, initialState: StateFinished, operation: "cancel", wantState: StateFinished},
		{name: "canceled_user_cancel_noop", direction: core.Sending, initialState: StateCanceled, operation: "cancel", wantState: StateCanceled},
		{name: "pending_receive_reject", direction: core.Receiving, initialState: StatePending, operation: "reject", wantState: StateCanceled},
		{name: "pending_send_reject_noop", direction: core.Sending, initialState: StatePending, operation: "reject", wantState: StatePending},
		{name: "processing_receive_reject_noop", direction: core.Receiving, initialState: StateProcessing, operation: "reject", wantState: StateProcessing},
		{name: "pending_receive_accept", direction: core.Receiving, initialState: StatePending, operation: "accept", wantState: StateProcessing},
		{name: "pending_send_accept_noop", direction: core.Sending, initialState: StatePending, operation: "accept", wantState: StatePending},
		{name: "processing_receive_accept_noop", direction: core.Receiving, initialState: StateProcessing, operation: "accept", wantState: StateProcessing},
		{name: "paused_receive_accept_noop", direction: core.Receiving, initialState: StatePaused, operation: "accept", wantState: StatePaused},

		// Pause/resume requests never flip the local state directly.
		{name: "processing_pause_resume_keeps_state", direction: core.Sending, initialState: StateProcessing, operation: "pauseResume", wantState: StateProcessing},
		{name: "paused_pause_resume_keeps_state", direction: core.Receiving, initialState: StatePaused, operation: "pauseResume", wantState: StatePaused},
		{name: "pending_pause_resume_noop", direction: core.Sending, initialState: StatePending, operation: "pauseResume", wantState: StatePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, _, prompter, _ := newTestInstance(tt.direction)
			inst.state = tt.initialState
			prompter.responses = []promptResponse{
				{path: filepath.Join(t.TempDir(), "holiday.png"), ok: true},
			}

			sub := inst.subject()
			switch tt.operation {
			case "onAccepted":
				inst.OnFileTransferAccepted(core.AcceptedEvent{Sub: sub})
			case "onPaused":
				inst.OnFileTransferPaused(core.PausedEvent{Sub: sub})
			case "onCancelled":
				inst.OnFileTransferCancelled(core.CancelledEvent{Sub: sub})
			case "onFinished":
				inst.OnFileTransferFinished(core.FinishedEvent{Sub: sub})
			case "cancel":
				inst.CancelTransfer()
			case "reject":
				inst.RejectReceive()
			case "accept":
				inst.AcceptReceive()
			case "pauseResume":
				inst.PauseResume()
			}

			assert.Equal(t, tt.wantState, inst.State())
		})
	}
}

// TestInstanceSubjectFiltering verifies that events for another transfer
// are ignored entirely: wrong friend, wrong file number, or wrong
// direction.
func TestInstanceSubjectFiltering(t *testing.T) {
	matching := core.Subject{FriendID: 42, FileNum: 7, Direction: core.Receiving}

	tests := []struct {
		name string
		sub  core.Subject
	}{
		{name: "wrong_friend", sub: core.Subject{FriendID: 43, FileNum: 7, Direction: core.Receiving}},
		{name: "wrong_file_num", sub: core.Subject{FriendID: 42, FileNum: 8, Direction: core.Receiving}},
		{name: "wrong_direction", sub: core.Subject{FriendID: 42, FileNum: 7, Direction: core.Sending}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, _, _, _ := newTestInstance(core.Receiving)

			var updates int
			inst.OnStateUpdated(func() { updates++ })

			inst.OnFileTransferAccepted(core.AcceptedEvent{Sub: tt.sub})
			inst.OnFileTransferPaused(core.PausedEvent{Sub: tt.sub})
			inst.OnFileTransferCancelled(core.CancelledEvent{Sub: tt.sub})
			inst.OnFileTransferFinished(core.FinishedEvent{Sub: tt.sub})
			inst.OnFileTransferRemotePausedUnpaused(core.RemotePauseEvent{Sub: tt.sub, Paused: true})

			assert.Equal(t, StatePending, inst.State())
			assert.False(t, inst.remotePaused)
			assert.Zero(t, updates)

			// A matching event still lands.
			inst.OnFileTransferAccepted(core.AcceptedEvent{Sub: matching})
			assert.Equal(t, StateProcessing, inst.State())
			assert.Equal(t, 1, updates)
		})
	}
}

// TestRemotePauseIndependentOfState verifies the remote pause flag is
// tracked independently of the local state machine.
func TestRemotePauseIndependentOfState(t *testing.T) {
	inst, _, _, _ := newTestInstance(core.Sending)
	sub := inst.subject()

	inst.OnFileTransferRemotePausedUnpaused(core.RemotePauseEvent{Sub: sub, Paused: true})
	assert.Equal(t, StatePending, inst.State())
	assert.True(t, inst.remotePaused)

	inst.OnFileTransferRemotePausedUnpaused(core.RemotePauseEvent{Sub: sub, Paused: false})
	assert.False(t, inst.remotePaused)

	// Acceptance clears a remote pause.
	inst.OnFileTransferRemotePausedUnpaused(core.RemotePauseEvent{Sub: sub, Paused: true})
	inst.OnFileTransferAccepted(core.AcceptedEvent{Sub: sub})
	assert.False(t, inst.remotePaused)
	assert.Equal(t, StateProcessing, inst.State())
}
