package services

// LogHandler is the logging contract injected into every component.
type LogHandler interface {
	Debug(text string)
	Info(text string)
	Warn(text string)
	Error(text string, err error)
}

// Data is anything the database layer can persist as a typed record.
type Data interface {
	DataType() string
}
