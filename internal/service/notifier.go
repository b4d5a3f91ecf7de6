package service

// Notifier pushes events to an attempt's owner over WebSocket
// (avoids import cycle with the transport layer)
type Notifier interface {
	NotifyOwner(attemptID string, event string, payload interface{})
}
