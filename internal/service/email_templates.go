package service

import (
	"bytes"
	"html/template"
	"strings"
	"time"
)

var emailFuncs = template.FuncMap{
	// nl2br escapes s and turns its line breaks into <br>.
	"nl2br": func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	},
}

var contactOwnerTemplate = template.Must(template.New("contact_owner").Funcs(emailFuncs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Contact Details</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background-color: #fff; padding: 20px; border: 1px solid #dee2e6; border-radius: 8px;">
    <h3 style="color: #333; margin-top: 0;">Message</h3>
    <p style="line-height: 1.6; color: #555;">{{nl2br .Message}}</p>
  </div>
  <div style="margin-top: 20px; padding: 15px; background-color: #e9ecef; border-radius: 8px;">
    <p style="margin: 0; font-size: 14px; color: #6c757d;">This message was sent from your portfolio contact form at {{.SentAt}}</p>
  </div>
</div>`))

var contactAckTemplate = template.Must(template.New("contact_ack").Funcs(emailFuncs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">Thank you for your message!</h2>
  <p style="font-size: 16px; line-height: 1.6; color: #555;">Hi {{.Name}},</p>
  <p style="font-size: 16px; line-height: 1.6; color: #555;">
    Thank you for reaching out through my portfolio. I've received your message about "<strong>{{.Subject}}</strong>" and will get back to you as soon as possible.
  </p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Your Message</h3>
    <p style="font-style: italic; color: #666; line-height: 1.6;">"{{nl2br .Message}}"</p>
  </div>
  <p style="font-size: 16px; line-height: 1.6; color: #555;">
    I typically respond within 24-48 hours. In the meantime, feel free to check out my latest projects on my portfolio.
  </p>
  <div style="margin-top: 30px; padding: 20px; background-color: #007bff; border-radius: 8px; text-align: center;">
    <p style="color: white; margin: 0; font-size: 16px;">
      <strong>{{.OwnerName}}</strong><br>
      <a href="mailto:{{.OwnerEmail}}" style="color: #ffc107;">{{.OwnerEmail}}</a>
    </p>
  </div>
  <div style="margin-top: 20px; text-align: center;">
    <p style="font-size: 14px; color: #6c757d;">Sent on {{.SentAt}}</p>
  </div>
</div>`))

type contactEmailData struct {
	ContactMessage
	OwnerName  string
	OwnerEmail string
	SentAt     string
}

func newContactEmailData(msg ContactMessage, ownerName, ownerEmail string, sentAt time.Time) contactEmailData {
	return contactEmailData{
		ContactMessage: msg,
		OwnerName:      ownerName,
		OwnerEmail:     ownerEmail,
		SentAt:         sentAt.Format("Jan 2, 2006 at 3:04 PM MST"),
	}
}

func contactOwnerEmailTemplate(data contactEmailData) (string, string, error) {
	subject := "Portfolio Contact: " + data.Subject
	body, err := renderEmail(contactOwnerTemplate, data)
	return subject, body, err
}

func contactAckEmailTemplate(data contactEmailData) (string, string, error) {
	subject := "Thanks for reaching out!"
	body, err := renderEmail(contactAckTemplate, data)
	return subject, body, err
}

func renderEmail(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
