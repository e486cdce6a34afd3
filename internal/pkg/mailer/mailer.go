package mailer

import (
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// Mailer sends owner-facing alert emails over SMTP.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendLowRatingAlert notifies a business owner about a 1-2 star submission.
func (m *Mailer) SendLowRatingAlert(to, businessName string, rating int, comment, visitorName string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}

	msg.Subject(fmt.Sprintf("تقييم منخفض - %s", businessName))
	msg.SetBodyString(mail.TypeTextHTML, lowRatingHTML(businessName, rating, comment, visitorName))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}

func lowRatingHTML(businessName string, rating int, comment, visitorName string) string {
	if comment == "" {
		comment = "لا يوجد"
	}
	if visitorName == "" {
		visitorName = "غير محدد"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ar" dir="rtl">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #c0392b;">تقييم جديد يحتاج انتباهك - %s</h2>
		<p>التقييم: %s (%d/5)</p>
		<p>العميل: %s</p>
		<p>التعليق: %s</p>
		<p style="color: #777; font-size: 12px;">تم إرسال هذا التنبيه تلقائياً من TapLink.</p>
	</div>
</body>
</html>`, businessName, strings.Repeat("⭐", rating), rating, visitorName, comment)
}
