package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// SendContactReminder avisa o dono que o próximo contato do lead passou
// do horário sem registro de interação.
func (s *EmailSender) SendContactReminder(to, ownerName, leadName, stage, nextContact string) error {
	data := ReminderEmailData{
		OwnerName:   ownerName,
		LeadName:    leadName,
		Stage:       stage,
		NextContact: nextContact,
	}

	tmplPath := filepath.Join("templates", "contact_reminder.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@gbcsales.com.br")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("⏰ Contato atrasado: %s", leadName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
