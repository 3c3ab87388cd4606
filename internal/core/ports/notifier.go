package ports

// Notifier delivers best-effort messages to an external channel keyed by
// project. Implementations never block the caller and never surface
// delivery failures; they log and move on.
type Notifier interface {
	Notify(channelKey, message string)
}
