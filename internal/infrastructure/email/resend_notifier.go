// Package email avisa por correo (Resend) de las cotizaciones nuevas.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

var _ usecase.QuoteNotifier = (*ResendNotifier)(nil)

// sender subconjunto de resend.EmailsSvc usado aquí.
type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier envía el aviso de cotización nueva al buzón de ventas.
type ResendNotifier struct {
	emails   sender
	from     string
	to       string
	adminURL string
}

// NewResendNotifier construye el notificador. siteURL se usa para el enlace al panel.
func NewResendNotifier(apiKey, from, to, siteURL string) *ResendNotifier {
	return &ResendNotifier{
		emails:   resend.NewClient(apiKey).Emails,
		from:     from,
		to:       to,
		adminURL: siteURL + "/admin/cotizaciones",
	}
}

var quoteTmpl = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Nueva cotización</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Nueva cotización {{.Q.QuoteNumber}}</h2>
  <p><strong>{{.Q.CustomerName}}</strong>{{if .Q.CustomerCompany}} ({{.Q.CustomerCompany}}){{end}}<br>
     {{.Q.CustomerEmail}}{{if .Q.CustomerPhone}} · {{.Q.CustomerPhone}}{{end}}</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr style="background: #f3f3f3;"><th align="left">Producto</th><th align="left">Código</th><th align="right">Cant.</th></tr>
    {{range .Q.Items}}<tr><td>{{.ProductName}}</td><td>{{.ProductID}}</td><td align="right">{{.Quantity}}</td></tr>
    {{end}}
  </table>
  <p>{{.Q.TotalItems}} ítems · {{.Q.TotalUnits}} unidades · origen: {{.Q.Source}}</p>
  {{if .Q.Notes}}<p><em>{{.Q.Notes}}</em></p>{{end}}
  <p><a href="{{.AdminURL}}">Ver en el panel</a></p>
</body>
</html>`))

// NotifyNewQuote envía el correo. Sin destinatario configurado no hace nada.
func (n *ResendNotifier) NotifyNewQuote(ctx context.Context, q *entity.Quote) error {
	if n.to == "" {
		return nil
	}
	var body bytes.Buffer
	if err := quoteTmpl.Execute(&body, struct {
		Q        *entity.Quote
		AdminURL string
	}{q, n.adminURL}); err != nil {
		return fmt.Errorf("email: render plantilla: %w", err)
	}

	req := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		ReplyTo: q.CustomerEmail,
		Subject: fmt.Sprintf("Nueva cotización %s - %s", q.QuoteNumber, q.CustomerName),
		Html:    body.String(),
	}
	res, err := n.emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("email: envío vía Resend: %w", err)
	}
	log.Info().Str("email_id", res.Id).Str("quote", q.QuoteNumber).Msg("aviso de cotización enviado")
	return nil
}
