package core

import (
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Listener receives events for a transfer it subscribed to.
type Listener interface {
	HandleFileEvent(ev Event)
}

// Dispatcher routes transfer events to listeners keyed by subject. It
// replaces a broadcast signal bus: a listener subscribed to one subject
// never sees events belonging to another transfer.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[Subject][]Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Subject][]Listener),
	}
}

// Subscribe registers l for events concerning sub. Subscribing the same
// listener twice delivers events twice.
func (d *Dispatcher) Subscribe(sub Subject, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[sub] = append(d.listeners[sub], l)

	logrus.WithFields(logrus.Fields{
		"function":  "Subscribe",
		"friend_id": sub.FriendID,
		"file_num":  sub.FileNum,
		"direction": sub.Direction,
	}).Debug("Listener subscribed to transfer events")
}

// Unsubscribe removes every registration of l for sub. Unknown subjects and
// listeners are ignored.
func (d *Dispatcher) Unsubscribe(sub Subject, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	remaining := lo.Filter(d.listeners[sub], func(item Listener, _ int) bool {
		return item != l
	})
	if len(remaining) == 0 {
		delete(d.listeners, sub)
	} else {
		d.listeners[sub] = remaining
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Unsubscribe",
		"friend_id": sub.FriendID,
		"file_num":  sub.FileNum,
		"direction": sub.Direction,
	}).Debug("Listener unsubscribed from transfer events")
}

// Publish delivers ev to every listener subscribed to its subject,
// synchronously and in subscription order. Events with no listeners are
// dropped.
func (d *Dispatcher) Publish(ev Event) {
	d.mu.RLock()
	targets := make([]Listener, len(d.listeners[ev.Subject()]))
	copy(targets, d.listeners[ev.Subject()])
	d.mu.RUnlock()

	for _, l := range targets {
		l.HandleFileEvent(ev)
	}
}
