package sendgrid

import (
	"strings"

	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// BuildMessage renders a notification into a dynamic-template message for recipient.
func BuildMessage(n *domain.Notification, recipient string, opts Options) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(opts.FromName, opts.FromAddress))
	m.SetTemplateID(opts.TemplateID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(n.ClientName, recipient))
	for k, v := range TemplateData(n) {
		p.SetDynamicTemplateData(k, v)
	}
	m.AddPersonalizations(p)

	if opts.ASMGroupID > 0 {
		asm := mail.NewASM()
		asm.SetGroupID(opts.ASMGroupID)
		asm.AddGroupsToDisplay(opts.ASMGroupsDisplay...)
		m.SetASM(asm)
	}

	return m
}

// TemplateData is the dynamic data the e-mail template renders.
// Amounts are pre-formatted strings with two decimals.
func TemplateData(n *domain.Notification) map[string]interface{} {
	data := map[string]interface{}{
		"client_name":    n.ClientName,
		"dados_id":       n.SaleID,
		"daily_checkins": n.Loyalty.DailyCheckins,
		"quarter_spend":  money(n.Loyalty.QuarterSpend),
		"lifetime_spend": money(n.Loyalty.LifetimeSpend),
	}

	if n.Contact != nil {
		data["client_email"] = n.Contact.Email
	}

	if p := n.Purchase; p != nil {
		items := make([]map[string]interface{}, 0, len(p.LineItems))
		for _, li := range p.LineItems {
			items = append(items, map[string]interface{}{
				"item_name":        li.Name,
				"item_quantity":    quantity(li.Quantity),
				"item_price":       money(li.UnitPrice),
				"total_item_price": money(li.LineTotal),
			})
		}
		data["items"] = items
		data["sub_total"] = money(p.Totals.Subtotal)
		data["total_discount"] = money(p.Totals.Discount)
		data["total_paid"] = money(p.Totals.Paid)
		data["payment_method"] = p.Totals.PaymentMethod
	}

	if n.InvoiceURL != "" {
		data["nota_fiscal_url"] = n.InvoiceURL
	}

	return data
}

func money(d *domain.Decimal) string {
	if d == nil {
		return "0.00"
	}
	return d.String()
}

// quantity drops insignificant zeros: 2.000 -> 2, 0.500 -> 0.5.
func quantity(d *domain.Decimal) string {
	if d == nil {
		return "0"
	}
	s := d.Format(3)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
