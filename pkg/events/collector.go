package events

// EventCollector gathers the events raised while a result is being built.
type EventCollector struct {
	events []DomainEvent
}

// Record appends a domain event to the collector.
func (c *EventCollector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// Events returns the collected events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.events
}

// ClearEvents returns the collected events and resets the collector.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}

// Types lists the collected event types in record order.
func (c *EventCollector) Types() []string {
	types := make([]string, 0, len(c.events))
	for _, e := range c.events {
		types = append(types, e.EventType())
	}
	return types
}
