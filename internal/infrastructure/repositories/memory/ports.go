package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"tutorlink.backend/internal/domain/entities"
	domainerrors "tutorlink.backend/internal/domain/errors"
	"tutorlink.backend/internal/domain/repositories"
)

// DocumentStore keeps uploaded objects in memory
type DocumentStore struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
	// FailKeys makes Put fail for any key containing one of these substrings
	FailKeys []string
}

func NewDocumentStore(baseURL string) *DocumentStore {
	return &DocumentStore{BaseURL: baseURL, Objects: map[string][]byte{}}
}

func (d *DocumentStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	for _, k := range d.FailKeys {
		if strings.Contains(key, k) {
			return "", domainerrors.ErrStorageFailure
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Objects[key] = buf.Bytes()
	return strings.TrimRight(d.BaseURL, "/") + "/" + key, nil
}

// Keys lists stored object keys
func (d *DocumentStore) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.Objects))
	for k := range d.Objects {
		keys = append(keys, k)
	}
	return keys
}

// Publisher records published status events and fans them out to in-process
// subscribers. Slow subscribers drop events rather than block the publisher.
type Publisher struct {
	mu     sync.Mutex
	events []entities.StatusEvent
	subs   map[*subscription]string
	Err    error
}

func (p *Publisher) PublishStatus(_ context.Context, e entities.StatusEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	for sub, userID := range p.subs {
		if userID != "" && userID != e.UserID.String() {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
	return nil
}

func (p *Publisher) Events() []entities.StatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entities.StatusEvent(nil), p.events...)
}

func (p *Publisher) SubscribeUser(_ context.Context, userID string) (repositories.StatusSubscription, error) {
	return p.subscribe(userID), nil
}

func (p *Publisher) SubscribeAdmin(_ context.Context) (repositories.StatusSubscription, error) {
	return p.subscribe(""), nil
}

// Subscribers is the number of open subscriptions
func (p *Publisher) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

func (p *Publisher) subscribe(userID string) *subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs == nil {
		p.subs = map[*subscription]string{}
	}
	sub := &subscription{ch: make(chan entities.StatusEvent, 16), p: p}
	p.subs[sub] = userID
	return sub
}

type subscription struct {
	ch   chan entities.StatusEvent
	p    *Publisher
	once sync.Once
}

func (s *subscription) Events() <-chan entities.StatusEvent { return s.ch }

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.p.mu.Lock()
		defer s.p.mu.Unlock()
		delete(s.p.subs, s)
		close(s.ch)
	})
	return nil
}

// PendingRegistrationStore keeps pending sign-ups with an absolute expiry
type PendingRegistrationStore struct {
	mu    sync.Mutex
	items map[string]pendingItem
	now   func() time.Time
}

type pendingItem struct {
	p         entities.PendingRegistration
	expiresAt time.Time
}

func NewPendingRegistrationStore(now func() time.Time) *PendingRegistrationStore {
	if now == nil {
		now = time.Now
	}
	return &PendingRegistrationStore{items: map[string]pendingItem{}, now: now}
}

func (s *PendingRegistrationStore) Save(_ context.Context, p *entities.PendingRegistration, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[strings.ToLower(p.Email)] = pendingItem{p: *p, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *PendingRegistrationStore) Get(_ context.Context, email string) (*entities.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[strings.ToLower(email)]
	if !ok || !s.now().Before(it.expiresAt) {
		return nil, domainerrors.ErrNotFound
	}
	return &it.p, nil
}

func (s *PendingRegistrationStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, strings.ToLower(email))
	return nil
}
