package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender delivers transactional e-mail. A nil Sender disables e-mail.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, name, role string) error
	SendNotification(ctx context.Context, toEmail, name, title, message string) error
}

// BrevoClient sends e-mail via Brevo (Sendinblue). Configured by SENDINBLUE_API_KEY and MAIL_FROM.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Endpoint string // defaults to the public Brevo API
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@agriconnect.com"
}

func (c *BrevoClient) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return brevoAPI
}

func (c *BrevoClient) send(ctx context.Context, toEmail, toName, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoContact{Email: c.from(), Name: "AgriConnect"},
		To:          []BrevoContact{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome greets a newly registered seller or buyer.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, name, role string) error {
	if name == "" {
		name = "there"
	}
	return c.send(ctx, toEmail, name, "Welcome to AgriConnect", EmailLayout(welcomeContent(name, role)))
}

// SendNotification mirrors an in-app notification by e-mail.
func (c *BrevoClient) SendNotification(ctx context.Context, toEmail, name, title, message string) error {
	return c.send(ctx, toEmail, name, title, EmailLayout(notificationContent(name, title, message)))
}

func welcomeContent(name, role string) string {
	next := "Browse fresh listings and tell sellers you are interested."
	if role == "seller" {
		next = "Post your first waste listing so buyers can find it."
	}
	return fmt.Sprintf(`
    <h1>Welcome, %s!</h1>
    <p>Your AgriConnect account is ready. %s</p>
`, EscapeHTML(name), next)
}

func notificationContent(name, title, message string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`
    <h1>%s</h1>
    <p>Hi %s,</p>
    <p>%s</p>
    <p>Sign in to AgriConnect to follow up.</p>
`, EscapeHTML(title), EscapeHTML(name), EscapeHTML(message))
}
