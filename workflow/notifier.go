package workflow

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/models"
	templates "github.com/linesmerrill/court-records-api/templates/html"
)

// Notifier tells a requester their access request was decided
type Notifier interface {
	AccessDecided(ctx context.Context, requester models.User, item models.LedgerItem) error
}

// MailSender is the part of the sendgrid client the notifier uses
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailNotifier sends decision e-mails through SendGrid
type EmailNotifier struct {
	Client   MailSender
	From     string
	FromName string
}

// NewEmailNotifier returns a notifier using the SendGrid api key
func NewEmailNotifier(apiKey, from string) *EmailNotifier {
	return &EmailNotifier{
		Client:   sendgrid.NewSendClient(apiKey),
		From:     from,
		FromName: "Court Records",
	}
}

// AccessDecided sends the decision e-mail
func (n *EmailNotifier) AccessDecided(ctx context.Context, requester models.User, item models.LedgerItem) error {
	if requester.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Your access request for case %s was %s", item.CaseID, item.Decision)
	plain := fmt.Sprintf("Hello %s,\n\nYour request for case %s (%s) was %s.", requester.FullName, item.CaseID, item.Title, item.Decision)
	if item.Note != "" {
		plain += "\n\nNote from the registrar: " + item.Note
	}
	html := templates.RenderDecisionEmail(subject, plain)

	from := mail.NewEmail(n.FromName, n.From)
	to := mail.NewEmail(requester.FullName, requester.Email)
	message := mail.NewSingleEmail(from, subject, to, plain, html)
	response, err := n.Client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", requester.Email)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("decision email sent", "to", requester.Email, "caseId", item.CaseID)
	return nil
}
