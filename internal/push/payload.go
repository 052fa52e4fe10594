package push

import (
	"fmt"
)

// Default payload values, used whenever the trigger supplies nothing usable.
const (
	DefaultTitle   = "There are updates"
	DefaultMessage = "Open the app to check"
	DefaultURL     = "/topics"
)

// maxMessageRunes bounds notification bodies so system notification UI stays legible.
const maxMessageRunes = 80

// Recognized event tags for templated notifications.
const (
	EventTopicCreated   = "topic_created"
	EventCommentCreated = "comment_created"
	EventFileAdded      = "file_added"
)

// Payload is the notification content delivered to every subscription.
// It is ephemeral and never persisted.
type Payload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// TriggerRequest is the wire shape accepted by the notification trigger
// entry point. When Event carries a recognized tag, title and message are
// derived from the structured fields; otherwise the literal title/message/url
// are used, falling back to hardcoded defaults when absent.
type TriggerRequest struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	URL         string `json:"url"`
	Event       string `json:"event"`
	TopicID     string `json:"topicId"`
	TopicTitle  string `json:"topicTitle"`
	CreatedBy   string `json:"createdBy"`
	CommentID   string `json:"commentId"`
	CommentBody string `json:"commentBody"`
	CommentedBy string `json:"commentedBy"`
	FileName    string `json:"fileName"`
}

// BuildPayload maps a trigger request onto a notification payload. The
// mapping is total: unrecognized or absent event tags fall back to the
// literal fields, and empty literal fields fall back to defaults.
func BuildPayload(req TriggerRequest) Payload {
	var p Payload

	switch req.Event {
	case EventTopicCreated:
		p.Title = "New topic created"
		p.Message = fmt.Sprintf("%q was created by %s", req.TopicTitle, attribution(req.CreatedBy))
		p.URL = topicURL(req.TopicID)
	case EventCommentCreated:
		p.Title = "New comment"
		p.Message = fmt.Sprintf("%s commented on %q: %s", attribution(req.CommentedBy), req.TopicTitle, req.CommentBody)
		p.URL = topicURL(req.TopicID)
	case EventFileAdded:
		p.Title = "New file shared"
		p.Message = fmt.Sprintf("%s added %q to %q", attribution(req.CreatedBy), req.FileName, req.TopicTitle)
		p.URL = topicURL(req.TopicID)
	default:
		p.Title = req.Title
		p.Message = req.Message
		p.URL = req.URL
	}

	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Message == "" {
		p.Message = DefaultMessage
	}
	if p.URL == "" {
		p.URL = DefaultURL
	}
	p.Message = truncateMessage(p.Message)

	return p
}

func attribution(name string) string {
	if name == "" {
		return "someone"
	}
	return name
}

func topicURL(topicID string) string {
	if topicID == "" {
		return DefaultURL
	}
	return fmt.Sprintf("/topics/%s", topicID)
}

// truncateMessage caps the message at maxMessageRunes runes, appending an
// ellipsis marker when content was cut.
func truncateMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= maxMessageRunes {
		return msg
	}
	return string(runes[:maxMessageRunes]) + "…"
}
