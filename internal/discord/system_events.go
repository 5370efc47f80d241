package discord

type SystemEventType string

const (
	SystemEventRefreshCommands SystemEventType = "refresh_commands"
)

// SystemEvent asks the running bot to do something outside a handler.
// Done, when set, receives the result.
type SystemEvent struct {
	Type SystemEventType
	Done func(count int, err error)
}

var systemEventBus = make(chan SystemEvent, 16)

// PublishSystemEvent queues evt and reports false when the bus is full.
func PublishSystemEvent(evt SystemEvent) bool {
	select {
	case systemEventBus <- evt:
		return true
	default:
		return false
	}
}

func SystemEvents() <-chan SystemEvent {
	return systemEventBus
}
