package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	Name       string
	Email      string
	Phone      string
	Message    string
	ReceivedAt string
}

// ContactSubject is the subject line for a contact form email
func ContactSubject(name, email string) string {
	return fmt.Sprintf("Liên hệ mới từ %s - %s", name, email)
}

// contactHTMLTemplate is the HTML template for contact form emails
const contactHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
  <h2 style="color: #333; text-align: center; border-bottom: 2px solid #007bff; padding-bottom: 10px;">
    📧 Liên Hệ Mới Từ Website
  </h2>

  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Thông Tin Người Gửi:</h3>
    <p><strong>👤 Họ và tên:</strong> {{.Name}}</p>
    <p><strong>📧 Email:</strong> <a href="mailto:{{.Email}}" style="color: #007bff; text-decoration: none;">{{.Email}}</a></p>
    <p><strong>📱 Số điện thoại:</strong> <a href="tel:{{.Phone}}" style="color: #007bff; text-decoration: none;">{{.Phone}}</a></p>
  </div>

  <div style="background-color: #fff; padding: 20px; border: 1px solid #e9ecef; border-radius: 8px;">
    <h3 style="color: #28a745; margin-top: 0;">💬 Nội Dung Tin Nhắn:</h3>
    <p style="line-height: 1.6; color: #333; background-color: #f8f9fa; padding: 15px; border-left: 4px solid #007bff; margin: 0;">
      {{nl2br .Message}}
    </p>
  </div>

  <div style="margin-top: 20px; padding: 15px; background-color: #e7f3ff; border-radius: 8px; text-align: center;">
    <p style="margin: 0; color: #666; font-size: 14px;">
      📅 Thời gian nhận: {{.ReceivedAt}}
    </p>
  </div>

  <div style="margin-top: 20px; text-align: center; color: #666; font-size: 12px; border-top: 1px solid #ddd; padding-top: 15px;">
    <p>Email này được gửi tự động từ form liên hệ trên website</p>
  </div>
</div>
`

const contactTextTemplate = `LIÊN HỆ MỚI TỪ WEBSITE

Thông tin người gửi:
- Họ và tên: {{.Name}}
- Email: {{.Email}}
- Số điện thoại: {{.Phone}}

Nội dung tin nhắn:
{{.Message}}

Thời gian nhận: {{.ReceivedAt}}
`

var (
	contactHTML = htmltemplate.Must(htmltemplate.New("contact_html").Funcs(htmltemplate.FuncMap{
		"nl2br": nl2br,
	}).Parse(contactHTMLTemplate))

	contactText = texttemplate.Must(texttemplate.New("contact_text").Parse(contactTextTemplate))
)

// nl2br escapes s and turns newlines into <br>
func nl2br(s string) htmltemplate.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return htmltemplate.HTML(strings.ReplaceAll(htmltemplate.HTMLEscapeString(s), "\n", "<br>"))
}

// RenderContactEmail renders the HTML and plain-text bodies
func RenderContactEmail(data ContactEmailData) (html string, text string, err error) {
	var h bytes.Buffer
	if err := contactHTML.Execute(&h, data); err != nil {
		return "", "", fmt.Errorf("failed to execute html email template: %w", err)
	}

	var t bytes.Buffer
	if err := contactText.Execute(&t, data); err != nil {
		return "", "", fmt.Errorf("failed to execute text email template: %w", err)
	}

	return h.String(), t.String(), nil
}
