package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSelectionMade EventType = "SelectionMade"
	EventPageLoaded    EventType = "PageLoaded"
	EventFetchFailed   EventType = "FetchFailed"
	EventConfigLoaded  EventType = "ConfigLoaded"
	EventConfigSaved   EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SelectionMadeEvent is emitted when the user picks an autocomplete result
type SelectionMadeEvent struct {
	Display string
	Record  SearchResult
}

func (e SelectionMadeEvent) Type() EventType { return EventSelectionMade }

// PageLoadedEvent is emitted when a page of list items arrives
type PageLoadedEvent struct {
	Page   int
	Offset int
	Count  int
	Total  int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// FetchFailedEvent is emitted when a widget fetch fails. The widget has
// already degraded (empty results or kept content) by the time it is seen.
type FetchFailedEvent struct {
	Widget string
	URL    string
	Err    error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
