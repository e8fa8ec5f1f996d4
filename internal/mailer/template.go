package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const resetSubject = "Reset Your Account Password"

var resetTemplate = template.Must(template.New("reset").Parse(`
<h2>Password Reset Request</h2>
<p>You requested to reset your password.</p>
<p>Click the button below to proceed:</p>
<a href="{{.Link}}" style="display:inline-block;padding:10px 20px;background:#007bff;color:#fff;text-decoration:none;border-radius:5px;">Reset Password</a>
<p>This link is valid for {{.Validity}}.</p>
<p>If you didn't request this, please ignore the email.</p>
`))

type resetData struct {
	Link     string
	Validity string
}

func newResetData(link string, validity time.Duration) resetData {
	return resetData{Link: link, Validity: humanDuration(validity)}
}

// renderReset renders the HTML body of the password reset email.
func renderReset(link string, validity time.Duration) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, newResetData(link, validity)); err != nil {
		return "", fmt.Errorf("error rendering reset email: %w", err)
	}
	return buf.String(), nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}
