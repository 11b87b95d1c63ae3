package platform

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sending application where the platform shows
	// one.
	AppName string
	// IconPath points to a PNG shown with the notification. Empty means no
	// icon.
	IconPath string
	// Category is a freedesktop notification category such as
	// "transfer.complete". Other platforms ignore it.
	Category string
	// Transient notifications are not kept in the notification history.
	Transient bool
}

// expireMillis returns how long a notification stays on screen.
func (o Options) expireMillis() int32 {
	if o.Transient {
		return 2500
	}
	return 5000
}
