package queue

import (
	"context"
	"errors"
	"sync"

	"newsboard/internal/logger"
)

// ErrClosed возвращается при публикации в закрытую очередь.
var ErrClosed = errors.New("queue closed")

// Local - очередь в памяти процесса с тем же интерфейсом, что у RabbitMQ.
// Используется, когда брокер не настроен. Имя очереди игнорируется.
// В отличие от RabbitMQ, упавшая задача не возвращается в очередь.
type Local struct {
	tasks   chan []byte
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewLocal создаёт очередь с буфером size и workers обработчиками.
func NewLocal(workers, size int) *Local {
	if workers < 1 {
		workers = 1
	}
	return &Local{
		tasks:   make(chan []byte, size),
		workers: workers,
	}
}

// Publish ставит задачу в очередь и блокируется, пока в буфере нет места.
func (l *Local) Publish(ctx context.Context, _ string, body []byte) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}

	select {
	case l.tasks <- body:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume запускает обработчики.
func (l *Local) Consume(ctx context.Context, handler Handler) error {
	for i := 0; i < l.workers; i++ {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			for body := range l.tasks {
				if err := handler(ctx, body); err != nil {
					logger.Log.Errorf("Task failed: %v", err)
				}
			}
		}()
	}
	return nil
}

// Close закрывает очередь и ждёт завершения обработчиков.
func (l *Local) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.tasks)
	}
	l.mu.Unlock()
	l.wg.Wait()
}
