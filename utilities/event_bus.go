package utilities

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventHandler receives the published payload.
type EventHandler = func(interface{})

// EventBus fans events out to subscribers, each handler on its own
// goroutine.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
	log      *zap.Logger
}

func NewEventBus(log *zap.Logger) *EventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		log:      log,
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.wg.Add(1)
		go eb.run(event, handler, data)
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}

func (eb *EventBus) run(event string, handler EventHandler, data interface{}) {
	defer eb.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			eb.log.Error("event handler panicked",
				zap.String("event", event),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	handler(data)
}
