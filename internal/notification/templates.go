package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"
)

type Email struct {
	Subject string
	Text    string
	HTML    string
}

type view struct {
	Message
	Date         string
	PreviousDate string
}

var subjects = map[Kind]string{
	KindConfirmation: "✅ Confirmación de tu turno",
	KindEdit:         "✏️ Tu turno fue modificado",
	KindCancellation: "❌ Turno cancelado – Barbería",
}

var textTemplates = map[Kind]*template.Template{
	KindConfirmation: template.Must(template.New("confirmation").Parse(`Hola {{.Name}},

Gracias por reservar tu turno 🙌

📅 Día: {{.Date}}
⏰ Horario: {{.Time}}
✂️ Servicio: {{.Service}}

Te esperamos 💈
`)),
	KindEdit: template.Must(template.New("edit").Parse(`Hola {{.Name}},

Tu turno fue modificado correctamente.

Antes:
📅 {{.PreviousDate}}
⏰ {{.PreviousTime}}
✂️ {{.PreviousService}}

Ahora:
📅 {{.Date}}
⏰ {{.Time}}
✂️ {{.Service}}

Saludos,
Barbería 💈
`)),
	KindCancellation: template.Must(template.New("cancellation").Parse(`Hola {{.Name}},

Tu turno fue cancelado ❌

📅 Fecha: {{.Date}}
⏰ Hora: {{.Time}}
✂️ Servicio: {{.Service}}

Si necesitás reprogramar, podés hacerlo desde la web.

Saludos,
Barbería 💈
`)),
}

var confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(`<h2>¡Gracias por tu reserva! 🙌</h2>
<p>Tu turno fue confirmado correctamente.</p>
<ul>
<li><b>📅 Día:</b> {{.Date}}</li>
<li><b>⏰ Horario:</b> {{.Time}}</li>
<li><b>✂️ Servicio:</b> {{.Service}}</li>
</ul>
<p>¡Te esperamos!</p>
<p>💈 Barbería</p>
`))

// Render builds the email for msg. Kinds without an HTML body get the text
// body wrapped in <pre>.
func Render(msg Message) (Email, error) {
	tmpl, ok := textTemplates[msg.Kind]
	if !ok {
		return Email{}, fmt.Errorf("unknown notification kind %q", msg.Kind)
	}
	v := view{
		Message:      msg,
		Date:         displayDate(msg.Date),
		PreviousDate: displayDate(msg.PreviousDate),
	}

	var text bytes.Buffer
	if err := tmpl.Execute(&text, v); err != nil {
		return Email{}, fmt.Errorf("render %s text: %w", msg.Kind, err)
	}

	var html bytes.Buffer
	if msg.Kind == KindConfirmation {
		if err := confirmationHTML.Execute(&html, v); err != nil {
			return Email{}, fmt.Errorf("render %s html: %w", msg.Kind, err)
		}
	} else {
		html.WriteString("<pre>")
		htmltemplate.HTMLEscape(&html, text.Bytes())
		html.WriteString("</pre>")
	}

	return Email{Subject: subjects[msg.Kind], Text: text.String(), HTML: html.String()}, nil
}

func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
