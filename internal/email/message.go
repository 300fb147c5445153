package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"authcore/internal/apperror"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// MessageType selects the template a message is rendered with
type MessageType string

const (
	MessageWelcome MessageType = "welcome"
)

// Message is an outgoing email before rendering
type Message struct {
	Type    MessageType
	To      string
	From    string
	Subject string
	Data    any
}

// Render executes the template of the message type
func (m Message) Render() (string, error) {
	if templates.Lookup(string(m.Type)) == nil {
		return "", fmt.Errorf("unknown message type %q", m.Type)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(m.Type), m.Data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// MessageService validates and renders messages before handing them to a Sender
type MessageService struct {
	sender Sender
	from   string
}

// NewMessageService creates a message service. from is used when a message
// has no sender of its own.
func NewMessageService(sender Sender, from string) *MessageService {
	return &MessageService{sender: sender, from: from}
}

// SendMessage validates, renders and sends msg
func (s *MessageService) SendMessage(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = s.from
	}

	if _, err := mail.ParseAddress(msg.To); err != nil {
		return apperror.InvalidMessage("invalidReceiver").Wrap(err)
	}
	if _, err := mail.ParseAddress(msg.From); err != nil {
		return apperror.InvalidMessage("invalidSender").Wrap(err)
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return apperror.InvalidMessage("invalidSubject")
	}
	if templates.Lookup(string(msg.Type)) == nil {
		return apperror.InvalidMessage("invalidType")
	}

	body, err := msg.Render()
	if err != nil {
		return err
	}
	return s.sender.SendEmail(ctx, msg.Subject, body, []string{msg.To}, msg.From)
}
