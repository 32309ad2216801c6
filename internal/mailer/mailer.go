package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
)

// Mailer sends storefront notifications. Every send is fire-and-forget
// from the caller's point of view: failures are logged, never returned
// into a checkout or admin flow.
type Mailer interface {
	SendOrderReceipt(to string, o *order.Order)
	SendVendorDecision(to, storeName, status string)
}

type smtpMailer struct {
	cfg *config.SMTPConfig
}

// New builds an SMTP-backed mailer.
func New(cfg *config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendOrderReceipt(to string, o *order.Order) {
	html, err := renderReceipt(o)
	if err != nil {
		zap.L().Error("render receipt mail", zap.Error(err), zap.String("order", o.OrderNumber))
		return
	}
	m.send(to, fmt.Sprintf("Your Vedessa order %s", o.OrderNumber), html)
}

func (m *smtpMailer) SendVendorDecision(to, storeName, status string) {
	html, err := renderVendorDecision(storeName, status)
	if err != nil {
		zap.L().Error("render vendor mail", zap.Error(err), zap.String("store", storeName))
		return
	}
	m.send(to, "Your Vedessa vendor application", html)
}

func (m *smtpMailer) send(to, subject, html string) {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(html)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := e.Send(m.cfg.Addr(), auth); err != nil {
		zap.L().Warn("send mail", zap.Error(err), zap.String("to", to), zap.String("subject", subject))
	}
}

func rupees(paise int64) string {
	return fmt.Sprintf("₹%.2f", float64(paise)/100)
}

func renderReceipt(o *order.Order) (string, error) {
	t := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"rupees": rupees,
		"mul":    func(a, b int64) int64 { return a * b },
	}).Parse(receiptTemplate))
	var buf bytes.Buffer
	if err := t.Execute(&buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderVendorDecision(storeName, status string) (string, error) {
	t := template.Must(template.New("vendor").Parse(vendorTemplate))
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]string{"StoreName": storeName, "Status": status}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Order receipt</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Thank you for your order</h2>
    <p>Order <strong>{{.OrderNumber}}</strong> is {{.Status}}.</p>
    <table width="100%" cellpadding="6" style="border-collapse: collapse;">
      {{range .Items}}
      <tr style="border-bottom: 1px solid #eee;">
        <td>{{.Name}}</td>
        <td>x{{.Quantity}}</td>
        <td align="right">{{rupees (mul .Price .Quantity)}}</td>
      </tr>
      {{end}}
      <tr><td colspan="2">Subtotal</td><td align="right">{{rupees .Subtotal}}</td></tr>
      {{if .DiscountAmount}}<tr><td colspan="2">Discount ({{.CouponCode}})</td><td align="right">-{{rupees .DiscountAmount}}</td></tr>{{end}}
      <tr><td colspan="2">Tax</td><td align="right">{{rupees .TaxAmount}}</td></tr>
      <tr><td colspan="2">Shipping</td><td align="right">{{rupees .ShippingCost}}</td></tr>
      <tr><td colspan="2"><strong>Total</strong></td><td align="right"><strong>{{rupees .TotalAmount}}</strong></td></tr>
    </table>
  </div>
</body>
</html>`

const vendorTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Vendor application</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>{{.StoreName}}</h2>
    <p>Your vendor application is now <strong>{{.Status}}</strong>.</p>
  </div>
</body>
</html>`
