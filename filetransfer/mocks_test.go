package filetransfer

import (
	"time"

	"github.com/master-passeli/qTox/core"
)

// mockTimeProvider provides deterministic time for testing.
type mockTimeProvider struct {
	currentTime time.Time
}

func newMockTimeProvider() *mockTimeProvider {
	return &mockTimeProvider{
		currentTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockTimeProvider) Now() time.Time {
	return m.currentTime
}

func (m *mockTimeProvider) Since(t time.Time) time.Duration {
	return m.currentTime.Sub(t)
}

func (m *mockTimeProvider) advance(d time.Duration) {
	m.currentTime = m.currentTime.Add(d)
}

// coreCall records one command issued to the mock core.
type coreCall struct {
	op       string
	friendID uint32
	fileNum  uint32
	path     string
}

// mockCore implements core.Core and records every command.
type mockCore struct {
	calls []coreCall
	err   error
}

func (m *mockCore) CancelFileSend(friendID, fileNum uint32) error {
	m.calls = append(m.calls, coreCall{op: "cancelSend", friendID: friendID, fileNum: fileNum})
	return m.err
}

func (m *mockCore) RejectFileRecvRequest(friendID, fileNum uint32) error {
	m.calls = append(m.calls, coreCall{op: "rejectRecv", friendID: friendID, fileNum: fileNum})
	return m.err
}

func (m *mockCore) AcceptFileRecvRequest(friendID, fileNum uint32, path string) error {
	m.calls = append(m.calls, coreCall{op: "acceptRecv", friendID: friendID, fileNum: fileNum, path: path})
	return m.err
}

func (m *mockCore) PauseResumeFileSend(friendID, fileNum uint32) error {
	m.calls = append(m.calls, coreCall{op: "pauseResumeSend", friendID: friendID, fileNum: fileNum})
	return m.err
}

func (m *mockCore) PauseResumeFileRecv(friendID, fileNum uint32) error {
	m.calls = append(m.calls, coreCall{op: "pauseResumeRecv", friendID: friendID, fileNum: fileNum})
	return m.err
}

func (m *mockCore) ops() []string {
	ops := make([]string, len(m.calls))
	for idx, c := range m.calls {
		ops[idx] = c.op
	}
	return ops
}

// promptResponse is one scripted answer to a save dialog.
type promptResponse struct {
	path string
	ok   bool
}

// mockPrompter implements Prompter with scripted responses. An exhausted
// script behaves like a dismissed dialog.
type mockPrompter struct {
	responses []promptResponse
	suggested []string
	warned    []string
}

func (m *mockPrompter) SaveFileName(suggested string) (string, bool) {
	m.suggested = append(m.suggested, suggested)
	if len(m.responses) == 0 {
		return "", false
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r.path, r.ok
}

func (m *mockPrompter) WarnNotWritable(path string) {
	m.warned = append(m.warned, path)
}

// testFile returns a transfer descriptor used across tests.
func testFile(direction core.Direction) core.File {
	return core.File{
		FriendID:  42,
		FileNum:   7,
		Direction: direction,
		Name:      "holiday.png",
		Size:      10 * 1024 * 1024,
	}
}

// newTestInstance builds an instance with mock collaborators and a
// deterministic clock.
func newTestInstance(direction core.Direction) (*Instance, *mockCore, *mockPrompter, *mockTimeProvider) {
	tox := &mockCore{}
	prompter := &mockPrompter{}
	clock := newMockTimeProvider()

	inst := New(testFile(direction), tox, prompter)
	inst.SetTimeProvider(clock)

	return inst, tox, prompter, clock
}
