package handler

// BotHandler defines the interface for chat bot handlers
type BotHandler interface {
	Start() error
	Stop() error
}
