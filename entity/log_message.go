package entity

import "time"

// LogMessage is a structured log record persisted by the database layer.
type LogMessage struct {
	Time   time.Time `json:"time" bson:"time"`
	Level  string    `json:"level" bson:"level"`
	Module string    `json:"module" bson:"module"`
	Text   string    `json:"text" bson:"text"`
}

func (l *LogMessage) DataType() string {
	return "log"
}

// NewLogMessage stamps a log record with the current time.
func NewLogMessage(level, module, text string) *LogMessage {
	return &LogMessage{
		Time:   time.Now(),
		Level:  level,
		Module: module,
		Text:   text,
	}
}
