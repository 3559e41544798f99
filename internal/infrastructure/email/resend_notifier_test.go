package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "em_1"}, nil
}

func cotizacion() *entity.Quote {
	q := &entity.Quote{
		QuoteNumber:   "COT-2503-0001",
		CustomerName:  "Luis <script>",
		CustomerEmail: "luis@example.com",
		Source:        entity.QuoteSourceWeb,
		Items:         []entity.QuoteItem{{ProductID: "TAZ-01", ProductName: "Taza", Quantity: 3}},
	}
	q.RecalculateTotals()
	return q
}

func TestNotifyNewQuote_ArmaCorreo(t *testing.T) {
	fs := &fakeSender{}
	n := &ResendNotifier{emails: fs, from: "ventas@tienda.cl", to: "equipo@tienda.cl", adminURL: "https://tienda.cl/admin/cotizaciones"}

	require.NoError(t, n.NotifyNewQuote(context.Background(), cotizacion()))

	require.NotNil(t, fs.got)
	assert.Equal(t, []string{"equipo@tienda.cl"}, fs.got.To)
	assert.Equal(t, "luis@example.com", fs.got.ReplyTo)
	assert.Contains(t, fs.got.Subject, "COT-2503-0001")
	assert.Contains(t, fs.got.Html, "Taza")
	// Datos del cliente escapados.
	assert.NotContains(t, fs.got.Html, "<script>")
}

func TestNotifyNewQuote_SinDestinatarioNoEnvia(t *testing.T) {
	fs := &fakeSender{}
	n := &ResendNotifier{emails: fs}
	require.NoError(t, n.NotifyNewQuote(context.Background(), cotizacion()))
	assert.Nil(t, fs.got)
}

func TestNotifyNewQuote_ErrorDeResend(t *testing.T) {
	n := &ResendNotifier{emails: &fakeSender{err: errors.New("rate limit")}, to: "x@y.cl"}
	err := n.NotifyNewQuote(context.Background(), cotizacion())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
