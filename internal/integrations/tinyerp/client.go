// Package tinyerp is the Source-of-Record client for the Tiny ERP v2 API.
package tinyerp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/light-bringer/sale-notifier/internal/app/sale/contracts"
	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

const (
	// DefaultBaseURL is the public v2 endpoint.
	DefaultBaseURL = "https://api.tiny.com.br/api2"

	statusOK           = "3"
	statusInvalidParam = "2"
	statusError        = "1"

	codeInvalidToken = "1"
	codeNoRecords    = "20"

	maxBodyBytes = 1 << 20
)

// errNoRecords marks an ERP answer meaning "the query returned nothing".
var errNoRecords = errors.New("tiny erp: no records")

// Client talks to the Tiny ERP v2 API. The token travels in the query
// string, so URLs are sanitized before they reach a log line.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *slog.Logger
}

var (
	_ contracts.SourceOfRecord = (*Client)(nil)
	_ contracts.TaxDocuments   = (*Client)(nil)
)

// NewClient creates a Client. timeout bounds every single request.
func NewClient(baseURL, token string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// retorno is the status block every v2 response carries.
type retorno struct {
	StatusProcessamento domain.FlexString `json:"status_processamento"`
	Status              string            `json:"status"`
	CodigoErro          domain.FlexString `json:"codigo_erro"`
	Erros               []struct {
		Erro string `json:"erro"`
	} `json:"erros"`
}

func (r *retorno) messages() string {
	msgs := make([]string, 0, len(r.Erros))
	for _, e := range r.Erros {
		msgs = append(msgs, e.Erro)
	}
	return strings.Join(msgs, "; ")
}

// check maps the processing status onto the error taxonomy.
func (r *retorno) check(op string) error {
	switch r.StatusProcessamento.String() {
	case statusOK:
		return nil
	case statusInvalidParam:
		return domain.Permanent(op, fmt.Errorf("invalid query parameter: %s", r.messages()))
	case statusError:
		switch r.CodigoErro.String() {
		case codeInvalidToken:
			return domain.Permanent(op, fmt.Errorf("invalid api token: %s", r.messages()))
		case codeNoRecords:
			return errNoRecords
		default:
			return domain.Transient(op, fmt.Errorf("processing error %s: %s", r.CodigoErro, r.messages()))
		}
	default:
		return domain.Transient(op, fmt.Errorf("unexpected status_processamento %q", r.StatusProcessamento))
	}
}

// get calls endpoint with params and decodes the "retorno" object into out.
// out must expose the status block through statusBlock.
func (c *Client) get(ctx context.Context, op, endpoint string, params url.Values, out statusCarrier) error {
	params.Set("token", c.token)
	params.Set("formato", "JSON")
	target := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.Permanent(op, fmt.Errorf("failed to create request: %w", err))
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error embeds the full URL, token included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		if errors.Is(err, context.Canceled) {
			return domain.Permanent(op, err)
		}
		c.log.Warn("erp_request_failed", "op", op, "url", sanitizeURL(target), "error", err)
		return domain.Transient(op, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Transient(op, fmt.Errorf("failed to read response body: %w", err))
	}

	c.log.Debug("erp_response",
		"op", op,
		"url", sanitizeURL(target),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		httpErr := fmt.Errorf("Tiny ERP error (%d): %s", resp.StatusCode, truncate(string(body), 200))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return domain.Transient(op, httpErr)
		}
		return domain.Permanent(op, httpErr)
	}

	envelope := struct {
		Retorno json.RawMessage `json:"retorno"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Retorno) == 0 {
		return domain.Transient(op, fmt.Errorf("failed to decode response: malformed envelope"))
	}
	if err := json.Unmarshal(envelope.Retorno, out); err != nil {
		return domain.Transient(op, fmt.Errorf("failed to decode response: %w", err))
	}

	return out.statusBlock().check(op)
}

type statusCarrier interface {
	statusBlock() *retorno
}

// sanitizeURL drops the token parameter from a request URL.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
