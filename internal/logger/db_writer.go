package logger

import (
	"context"
	"fmt"
	"time"

	"woocrm/internal/config"
	"woocrm/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the background worker.
type LogEntry struct {
	Level      zapcore.Level
	Message    string
	Job        string
	EntityType string
	Caller     string
}

type logRecord struct {
	Message    string    `bson:"message"`
	Level      string    `bson:"level"`
	Job        string    `bson:"job,omitempty"`
	EntityType string    `bson:"entity_type,omitempty"`
	Caller     string    `bson:"caller,omitempty"`
	AppId      string    `bson:"app_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

// DBLogWriter handles async writing of log entries to Mongo.
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
	appId   string
}

func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
		appId:   cfg.AppId,
	}

	go writer.processLogs()

	return writer
}

// AddLog queues an entry; drops it when the buffer is full so logging can
// never block a request or a sync run.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB log channel full, dropping:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := logRecord{
			Message:    entry.Message,
			Level:      entry.Level.String(),
			Job:        entry.Job,
			EntityType: entry.EntityType,
			Caller:     entry.Caller,
			AppId:      w.appId,
			CreatedAt:  time.Now().UTC(),
		}

		// Errors ignored on purpose; a failing log sink must not take the
		// application down with it.
		w.db.Collection("logs").InsertOne(context.Background(), record)
	}
}
