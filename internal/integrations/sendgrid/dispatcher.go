// Package sendgrid sends sale notifications through a SendGrid dynamic template.
package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	sendgridapi "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// ErrNoRecipient is returned when there is nobody to send to.
var ErrNoRecipient = errors.New("no recipient address")

// mailSender is the slice of the SendGrid client the dispatcher uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Options configures the template, sender identity and unsubscribe groups.
type Options struct {
	TemplateID       string
	FromAddress      string
	FromName         string
	ASMGroupID       int
	ASMGroupsDisplay []int

	// TestMode redirects every message to TestRecipient.
	TestMode      bool
	TestRecipient string
}

// Dispatcher implements contracts.Dispatcher. Each Send is a single
// attempt: a retried send could deliver the same e-mail twice.
type Dispatcher struct {
	sender mailSender
	opts   Options
	log    *slog.Logger
}

var _ contracts.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher backed by the SendGrid v3 API.
func NewDispatcher(apiKey string, opts Options, log *slog.Logger) *Dispatcher {
	return newDispatcher(sendgridapi.NewSendClient(apiKey), opts, log)
}

func newDispatcher(sender mailSender, opts Options, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{sender: sender, opts: opts, log: log}
}

// Send delivers one notification.
func (d *Dispatcher) Send(ctx context.Context, n *domain.Notification) (*domain.DispatchResult, error) {
	recipient := d.recipient(n)
	if recipient == "" {
		return nil, domain.Permanent("send email", ErrNoRecipient)
	}

	msg := BuildMessage(n, recipient, d.opts)

	resp, err := d.sender.SendWithContext(ctx, msg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, domain.Permanent("send email", err)
		}
		return nil, domain.Transient("send email", fmt.Errorf("sendgrid request failed: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		sendErr := fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			return nil, domain.Transient("send email", sendErr)
		}
		return nil, domain.Permanent("send email", sendErr)
	}

	dispatchID := messageID(resp)
	d.log.Info("email_sent",
		"sale_id", n.SaleID,
		"recipient", recipient,
		"test_mode", d.opts.TestMode,
		"status", resp.StatusCode,
		"dispatch_id", dispatchID,
	)

	return &domain.DispatchResult{
		DispatchID: dispatchID,
		Recipient:  recipient,
		StatusCode: resp.StatusCode,
	}, nil
}

func (d *Dispatcher) recipient(n *domain.Notification) string {
	if d.opts.TestMode {
		return d.opts.TestRecipient
	}
	if n.Contact == nil {
		return ""
	}
	return n.Contact.Email
}

// messageID prefers SendGrid's X-Message-Id and falls back to a local id.
func messageID(resp *rest.Response) string {
	for k, v := range resp.Headers {
		if strings.EqualFold(k, "X-Message-Id") && len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
