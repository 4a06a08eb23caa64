package dispatcher

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик неудачных задач
type Metrics interface {
	IncSideEffectFailure(task string)
}
