package entities

import "strings"

// Command is a subscription keyword recognized before any reply logic
type Command int

const (
	CommandNone Command = iota
	CommandStop
	CommandStart
)

// ParseCommand matches the whole trimmed text case-insensitively
func ParseCommand(text string) Command {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "stop", "unsubscribe":
		return CommandStop
	case "start", "subscribe":
		return CommandStart
	default:
		return CommandNone
	}
}

// Fixed texts sent by the pipeline
const (
	WelcomeText      = "Welcome! You've been subscribed to our updates. Reply 'STOP' anytime to unsubscribe."
	UnsubscribedText = "You've been unsubscribed successfully. Thanks for using our service!"
	ResubscribedText = "Welcome back! You've been resubscribed to our updates."
	AcknowledgeText  = "Thanks for your message! We've received it and will get back to you soon."
)
