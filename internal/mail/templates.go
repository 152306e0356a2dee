package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var (
	verifyTmpl = template.Must(template.New("verify").Parse(
		`<p>Hi {{.Name}},</p>
<p>Please confirm your email address by following this link:</p>
<p><a href="{{.Link}}">Verify my account</a></p>
<p>The link is valid for 7 days.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>Hi {{.Name}},</p>
<p>Somebody asked to reset the password of your account. If it was you, follow this link:</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>If you did not ask for this, ignore this email.</p>`))
)

type linkData struct {
	Name string
	Link string
}

func VerificationEmail(to, name, link string) (Message, error) {
	return render(verifyTmpl, to, "Verify your account", linkData{Name: name, Link: link})
}

func PasswordResetEmail(to, name, link string) (Message, error) {
	return render(resetTmpl, to, "Reset your password", linkData{Name: name, Link: link})
}

func render(t *template.Template, to, subject string, data linkData) (Message, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return Message{To: to, Subject: subject, HTML: buf.String()}, nil
}
