package ui

import "sync"

// StatusNotifier collects player notices for the status bar.
type StatusNotifier struct {
	mu   sync.Mutex
	last string
}

func NewStatusNotifier() *StatusNotifier {
	return &StatusNotifier{}
}

func (n *StatusNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = msg
}

// Take returns the pending notice and clears it.
func (n *StatusNotifier) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg := n.last
	n.last = ""
	return msg
}
