// Package event publishes named progress events to presentation subscribers.
package event

import "sync"

// Kind names a progress event.
type Kind string

const (
	ScoreChanged       Kind = "score changed"
	BossSpawned        Kind = "boss spawned"
	BossDefeated       Kind = "boss defeated"
	BossHealthChanged  Kind = "boss health changed"
	LevelUp            Kind = "level up"
	GameOver           Kind = "game over"
	CreditsChanged     Kind = "credits changed"
	DifficultyIncrease Kind = "difficulty increased"
	ItemPickedUp       Kind = "item picked up"
	BossPhaseChanged   Kind = "boss phase changed"
)

// Event is one emitted notification. Fields irrelevant to Kind are zero.
type Event struct {
	Kind      Kind
	Score     int
	Level     int
	Health    float64
	MaxHealth float64
	Credits   int
	Item      string
	Phase     int
}

// Handler receives events synchronously on the emitting goroutine.
type Handler func(Event)

// Bus fans events out to handlers and channels.
// It is safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	handlers map[Kind][]Handler
	all      []Handler
	chans    map[chan<- Event]struct{}
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Kind][]Handler),
		chans:    make(map[chan<- Event]struct{}),
	}
}

// Subscribe registers h for events of kind k.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[k] = append(b.handlers[k], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// SubscribeChan registers ch to receive every event.
// If ch is full, the event is dropped for that subscriber (non-blocking).
//
// Precondition: ch must not be nil.
func (b *Bus) SubscribeChan(ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chans[ch] = struct{}{}
}

// UnsubscribeChan removes ch.
func (b *Bus) UnsubscribeChan(ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.chans, ch)
}

// Emit delivers e to kind handlers, then catch-all handlers, then channels.
// Handlers run outside the lock and may subscribe further handlers.
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.handlers[e.Kind])+len(b.all))
	hs = append(hs, b.handlers[e.Kind]...)
	hs = append(hs, b.all...)
	chans := make([]chan<- Event, 0, len(b.chans))
	for ch := range b.chans {
		chans = append(chans, ch)
	}
	b.mu.Unlock()

	for _, h := range hs {
		h(e)
	}
	for _, ch := range chans {
		select {
		case ch <- e:
		default:
		}
	}
}
