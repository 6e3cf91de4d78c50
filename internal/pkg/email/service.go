package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sender delivers a rendered message
type Sender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// Service renders staff notification templates and sends them from a
// background worker
type Service struct {
	sender       Sender
	loginURL     string
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

const (
	templateStaffWelcome       = "staff_welcome"
	templateRoleChanged        = "role_changed"
	templateAccountDeactivated = "account_deactivated"
)

// NewService creates email service. loginURL is linked from every email.
func NewService(sender Sender, loginURL string) *Service {
	s := &Service{
		sender:    sender,
		loginURL:  loginURL,
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	s.baseTemplate = template.Must(template.New("base").Parse(BaseTemplate))
	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		templateStaffWelcome:       StaffWelcomeTemplate,
		templateRoleChanged:        RoleChangedTemplate,
		templateAccountDeactivated: AccountDeactivatedTemplate,
	}
	for name, content := range templates {
		s.templates[name] = template.Must(template.New(name).Parse(content))
	}
}

// worker processes queued emails asynchronously
func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		if err := s.send(context.Background(), email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

// Render produces the full HTML body of a templated email
func (s *Service) Render(templateName string, data interface{}) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", &UnknownTemplateError{Name: templateName}
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, data); err != nil {
		return "", err
	}

	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return "", err
	}
	return htmlBuf.String(), nil
}

func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	html, err := s.Render(email.TemplateName, email.Data)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, &EmailMessage{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: html,
	})
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Msg("Email queue full, dropping email")
	}
}

// Close drains the queue and stops the worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

// UnknownTemplateError is returned when rendering a template that was never loaded
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return "email template " + e.Name + " not found"
}

// --- Staff notifications ---

// SendStaffWelcome tells a new staff member their account exists
func (s *Service) SendStaffWelcome(to, name, role string) {
	s.Queue(to, name, templateStaffWelcome, "Your CineVault admin account", map[string]string{
		"Name":     name,
		"Email":    to,
		"Role":     role,
		"LoginURL": s.loginURL,
	})
}

// SendRoleChanged tells a staff member their role changed
func (s *Service) SendRoleChanged(to, name, oldRole, newRole, reason string) {
	s.Queue(to, name, templateRoleChanged, "Your CineVault admin role changed", map[string]string{
		"Name":     name,
		"OldRole":  oldRole,
		"NewRole":  newRole,
		"Reason":   reason,
		"LoginURL": s.loginURL,
	})
}

// SendAccountDeactivated tells a staff member they can no longer sign in
func (s *Service) SendAccountDeactivated(to, name string) {
	s.Queue(to, name, templateAccountDeactivated, "Your CineVault admin account was deactivated", map[string]string{
		"Name": name,
	})
}
