package utils

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"taskflow/models"
)

// Notifier is told whenever a task gets a new assignee.
type Notifier interface {
	TaskAssigned(ctx context.Context, to models.User, t models.Task) error
}

// LogNotifier only writes a log line.
type LogNotifier struct{}

func (LogNotifier) TaskAssigned(_ context.Context, to models.User, t models.Task) error {
	log.Printf("task %s (%q) assigned to %s", t.ID, t.Title, to.Username)
	return nil
}

// MailNotifier emails username@domain through SendGrid.
type MailNotifier struct {
	client *sendgrid.Client
	from   string
	domain string
}

func NewMailNotifier(apiKey, from, domain string) *MailNotifier {
	return &MailNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		domain: domain,
	}
}

func (n *MailNotifier) TaskAssigned(ctx context.Context, to models.User, t models.Task) error {
	message := AssignmentEmail(n.from, to.Username+"@"+n.domain, to, t)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send assignment email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("send assignment email: status %d: %s", response.StatusCode, response.Body)
	}

	log.Println("assignment email sent to user: ", to.Username)
	return nil
}

// AssignmentEmail builds the message sent to the new assignee.
func AssignmentEmail(from, address string, to models.User, t models.Task) *mail.SGMailV3 {
	sender := mail.NewEmail("TaskFlow", from)
	recipient := mail.NewEmail(to.Username, address)
	subject := "New task: " + t.Title

	plainTextContent := fmt.Sprintf("You have been assigned %q.\n\n%s", t.Title, t.Description)
	htmlContent := fmt.Sprintf("<strong>You have been assigned &quot;%s&quot;.</strong><p>%s</p>",
		html.EscapeString(t.Title), html.EscapeString(t.Description))

	return mail.NewSingleEmail(sender, subject, recipient, plainTextContent, htmlContent)
}
