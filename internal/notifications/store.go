package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Store хранилище уведомлений, на которое могут подписываться несколько потребителей
type Store interface {
	Publish(ctx context.Context, n domain.Notification) error
	Subscribe(buffer int) (<-chan domain.Notification, func())
	Recent(limit int) []domain.Notification
}

// Memory уведомления в памяти процесса: кольцевой буфер последних сообщений
// и неблокирующая рассылка подписчикам (медленный подписчик теряет сообщения, а не тормозит публикацию)
type Memory struct {
	mu          sync.RWMutex
	recent      []domain.Notification
	next        int
	full        bool
	subscribers map[int]chan domain.Notification
	nextSubID   int
	now         func() time.Time
}

// NewMemory создает хранилище, помнящее capacity последних уведомлений
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 100
	}
	return &Memory{
		recent:      make([]domain.Notification, capacity),
		subscribers: make(map[int]chan domain.Notification),
		now:         time.Now,
	}
}

// Publish сохраняет уведомление и рассылает его подписчикам
func (m *Memory) Publish(_ context.Context, n domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.recent[m.next] = n
	m.next = (m.next + 1) % len(m.recent)
	if m.next == 0 {
		m.full = true
	}

	for _, ch := range m.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
	return nil
}

// Subscribe возвращает канал новых уведомлений и функцию отписки
func (m *Memory) Subscribe(buffer int) (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, buffer)

	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Recent последние уведомления, от новых к старым
func (m *Memory) Recent(limit int) []domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.next
	if m.full {
		size = len(m.recent)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	result := make([]domain.Notification, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (m.next - 1 - i + len(m.recent)) % len(m.recent)
		result = append(result, m.recent[idx])
	}
	return result
}
