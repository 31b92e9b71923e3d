package logger

import (
	"sync"

	log_model "farmhith/models/log"
	"farmhith/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request logs from a buffered channel on a single goroutine.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	once    sync.Once
	done    chan struct{}
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the channel until Close is called.
func (l *AsyncLogger) ProcessLog() {
	defer close(l.done)
	Info("Starting asynchronous request logger...")

	for entry := range l.channel {
		dbLog := log_model.Log{
			Method:          entry.Method,
			URL:             entry.URL,
			RequestBody:     entry.RequestBody,
			ResponseBody:    entry.ResponseBody,
			RequestHeaders:  entry.RequestHeaders,
			ResponseHeaders: entry.ResponseHeaders,
			StatusCode:      entry.StatusCode,
			CreatedAt:       entry.CreatedAt,
		}

		if err := l.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log", err)
		}
	}
}

// Log queues an entry. When the buffer is full the entry is dropped rather than blocking a request.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry for " + entry.Method + " " + entry.URL)
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (l *AsyncLogger) Close() {
	l.once.Do(func() {
		close(l.channel)
	})
	<-l.done
}
