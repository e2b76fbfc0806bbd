package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/utils"

	"go.uber.org/zap"
)

const resendEmailsURL = "https://api.resend.com/emails"

// EmailService mails guests their personalized invitation link through Resend.
type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
	apiURL      string
	httpClient  *http.Client
	store       IWeddingStore
}

func NewEmailService(apiKey, fromEmail, frontendURL string, store IWeddingStore) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		apiURL:      resendEmailsURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		store:       store,
	}
}

// WithEndpoint points the service at another Resend compatible URL.
func (s *EmailService) WithEndpoint(apiURL string) *EmailService {
	s.apiURL = apiURL
	return s
}

var invitationMail = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Georgia, serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: {{.Color}}; color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #fffaf3; padding: 30px; }
        .button { display: inline-block; background: {{.Color}}; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💍 {{.Couple}}</h1>
        </div>
        <div class="content">
            <p>Dear {{.Guest}},</p>
            <p>You are warmly invited to the <strong>{{.Event}}</strong>{{if .Date}} on <strong>{{.Date}}</strong>{{end}}{{if .Venue}} at {{.Venue}}{{end}}.</p>
            <a href="{{.Link}}" class="button">View invitation &amp; RSVP</a>
            <p style="color: #777; margin-top: 30px;">This link is personal to you, please do not share it.</p>
        </div>
    </div>
</body>
</html>`))

type invitationMailData struct {
	Couple, Guest, Event, Date, Venue, Color, Link string
}

// InvitationLink is the personalized page URL opening the guest's carousel
// on the given event.
func (s *EmailService) InvitationLink(slug, guestID string, eventIndex int) string {
	base := fmt.Sprintf("%s/w/%s?guest=%s", s.frontendURL, url.PathEscape(slug), url.QueryEscape(guestID))
	return LocationFor(base, eventIndex)
}

// SendGuestInvitation mails one invitation and moves it from pending to sent.
func (s *EmailService) SendGuestInvitation(ctx context.Context, slug, guestID, invitationID string) error {
	if s.apiKey == "" {
		return ErrEmailNotConfigured
	}

	w, err := s.store.GetWeddingBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if _, err := s.store.ValidateGuestAccess(ctx, w.ID, guestID); err != nil {
		return err
	}
	guest, err := s.store.GetGuestWithInvitations(ctx, guestID)
	if err != nil {
		return err
	}
	if guest.Email == "" {
		return ErrNoRecipient
	}

	index := -1
	for i, inv := range guest.Invitations {
		if inv.ID == invitationID {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrNotFound
	}
	inv := guest.Invitations[index]
	event := MapEvent(inv.Event)

	var body bytes.Buffer
	err = invitationMail.Execute(&body, invitationMailData{
		Couple: w.CoupleNames(),
		Guest:  guest.DisplayName(),
		Event:  event.Name,
		Date:   event.Date,
		Venue:  event.Venue,
		Color:  orDefault(w.PrimaryColor, DefaultPrimaryColor),
		Link:   s.InvitationLink(w.Slug, guest.ID, index),
	})
	if err != nil {
		return fmt.Errorf("render invitation mail: %w", err)
	}

	subject := fmt.Sprintf("%s invite you to the %s", w.CoupleNames(), event.Name)
	if err := s.send(ctx, guest.Email, subject, body.String()); err != nil {
		return err
	}

	if err := s.store.MarkInvitationStatus(ctx, inv.ID, models.InvitationSent); err != nil {
		return fmt.Errorf("mark invitation sent: %w", err)
	}
	utils.Log.Info("📧 invitation sent",
		zap.String("invitation_id", utils.MaskID(inv.ID)),
		zap.String("to", utils.MaskEmail(guest.Email)))
	return nil
}

func (s *EmailService) send(ctx context.Context, to, subject, html string) error {
	payload := map[string]interface{}{
		"from":    s.fromEmail,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
