package client

import "github.com/rs/zerolog/log"

// Notifier is told about the outcome of Gateway operations.
type Notifier interface {
	Success(message string)
	Failure(title, description string)
}

// LogNotifier writes notifications to the global zerolog logger.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Info().Msg(message)
}

func (LogNotifier) Failure(title, description string) {
	log.Error().Str("description", description).Msg(title)
}
