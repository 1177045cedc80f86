package mailer

import (
	"etix/src/lib"
	"log"
	"os"
)

// Send dispatches an HTML email in the background. Delivery failures are
// logged and swallowed; callers never observe them.
func Send(to string, subject string, htmlBody string) {
	if os.Getenv("SMTP_HOST") == "" {
		log.Printf("[mailer] SMTP not configured, dropping mail to %s: %s\n", to, subject)
		return
	}
	go func() {
		input := &lib.SendMailInput{
			From:     os.Getenv("MAIL_FROM"),
			FromName: os.Getenv("MAIL_FROM_NAME"),
			To:       []string{to},
			Subject:  subject,
			Body:     htmlBody,
			Html:     true,
		}
		if err := lib.SendMail(input); err != nil {
			log.Printf("[mailer] Error sending mail to %s: %s\n", to, err.Error())
		}
	}()
}
