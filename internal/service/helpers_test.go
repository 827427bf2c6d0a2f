package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Ali5829511/wwwr/internal/auth"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: testNow} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type publishedEvent struct {
	Type string
	Data any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestCollections() *store.Collections {
	return store.NewCollections(store.NewMemoryKV())
}

func newTestHasher() *auth.Hasher { return auth.NewHasher(bcrypt.MinCost) }

type fixture struct {
	collections *store.Collections
	clock       *clock
	events      *recordingPublisher
	users       *userService
	stickers    *stickerService
	violations  *violationService
	vehicles    *vehicleService
	units       *unitService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := newTestCollections()
	clk := newClock()
	pub := &recordingPublisher{}
	logger := zap.NewNop()

	users := NewUserService(repository.NewUsersCollection(c), newTestHasher(), logger).(*userService)
	users.now = clk.Now
	stickers := NewStickerService(repository.NewStickersCollection(c), logger).(*stickerService)
	stickers.now = clk.Now
	violations := NewViolationService(repository.NewViolationsCollection(c), pub, logger).(*violationService)
	violations.now = clk.Now
	vehicles := NewVehicleService(repository.NewVehiclesCollection(c), repository.NewViolationsCollection(c), pub, logger).(*vehicleService)
	vehicles.now = clk.Now
	units := NewUnitService(repository.NewUnitsCollection(c), nil, logger).(*unitService)

	return &fixture{
		collections: c,
		clock:       clk,
		events:      pub,
		users:       users,
		stickers:    stickers,
		violations:  violations,
		vehicles:    vehicles,
		units:       units,
	}
}
