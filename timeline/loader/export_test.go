package loader

// EventsTotal exposes the event counter to tests.
var EventsTotal = eventsTotal
