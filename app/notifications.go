package app

import (
	"sync"

	"github.com/google/uuid"
)

// NoticeKind distinguishes success and error toasts
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient, dismissible user notification
type Notice struct {
	ID          string
	Kind        NoticeKind
	Title       string
	Description string
}

// Notifications queues the toasts of one page until they are shown
type Notifications struct {
	mu      sync.Mutex
	pending []Notice
}

// NewNotifications creates an empty queue
func NewNotifications() *Notifications {
	return &Notifications{}
}

// Success queues a success toast
func (n *Notifications) Success(title, description string) Notice {
	return n.push(NoticeSuccess, title, description)
}

// Error queues an error toast
func (n *Notifications) Error(title, description string) Notice {
	return n.push(NoticeError, title, description)
}

func (n *Notifications) push(kind NoticeKind, title, description string) Notice {
	notice := Notice{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: description,
	}
	n.mu.Lock()
	n.pending = append(n.pending, notice)
	n.mu.Unlock()
	return notice
}

// Drain returns and clears the queued toasts
func (n *Notifications) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}

// Pending returns a copy of the queued toasts without clearing them
func (n *Notifications) Pending() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.pending))
	copy(out, n.pending)
	return out
}

// Dismiss removes a queued toast. It reports whether the toast was queued.
func (n *Notifications) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, notice := range n.pending {
		if notice.ID == id {
			n.pending = append(n.pending[:i], n.pending[i+1:]...)
			return true
		}
	}
	return false
}
