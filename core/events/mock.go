package events

// MockEvents drops everything, for states that never persist events
type MockEvents struct{}

func (e MockEvents) AddEvent(uint32, Event) {}

func (e MockEvents) LoadEvents(uint32) Events {
	return Events{}
}

func (e MockEvents) CommitEvents() error {
	return nil
}

func (e MockEvents) DiscardEvents() {}
