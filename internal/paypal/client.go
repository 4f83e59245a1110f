// Package paypal is a small client for the PayPal Invoicing v2 API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when no client credentials were supplied.
var ErrNotConfigured = errors.New("paypal credentials not configured")

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// RequestsPerSecond caps outbound API calls. Zero means 5.
	RequestsPerSecond float64
}

// Merchant is printed on every invoice.
type Merchant struct {
	BusinessName string
	Website      string
	LogoURL      string
}

type LineItem struct {
	Name  string
	Value string // decimal amount, e.g. "105.00"
}

type InvoiceRequest struct {
	Currency   string
	Merchant   Merchant
	Items      []LineItem
	PayerEmail string
	Note       string
}

// Invoice is the subset of the invoice resource the bot reads.
type Invoice struct {
	ID     string
	Status string
	PayURL string
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNotConfigured
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: 30 * time.Second})
	hc := cc.Client(tokenCtx)
	hc.Timeout = 30 * time.Second

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL: base,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}, nil
}

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal: status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type item struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	UnitAmount money  `json:"unit_amount"`
}

type invoiceDoc struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Detail struct {
		InvoiceNumber string `json:"invoice_number,omitempty"`
		CurrencyCode  string `json:"currency_code"`
		Note          string `json:"note,omitempty"`
		Metadata      *struct {
			RecipientViewURL string `json:"recipient_view_url,omitempty"`
		} `json:"metadata,omitempty"`
	} `json:"detail"`
	Invoicer *struct {
		BusinessName string `json:"business_name,omitempty"`
		Website      string `json:"website,omitempty"`
		LogoURL      string `json:"logo_url,omitempty"`
	} `json:"invoicer,omitempty"`
	PrimaryRecipients []recipient `json:"primary_recipients,omitempty"`
	Items             []item      `json:"items,omitempty"`
}

type recipient struct {
	BillingInfo struct {
		EmailAddress string `json:"email_address"`
	} `json:"billing_info"`
}

// CreateInvoice drafts, sends and re-reads an invoice so the pay link is known.
func (c *Client) CreateInvoice(ctx context.Context, in InvoiceRequest) (*Invoice, error) {
	var number struct {
		InvoiceNumber string `json:"invoice_number"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/invoicing/generate-next-invoice-number", nil, &number); err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	var doc invoiceDoc
	doc.Detail.InvoiceNumber = number.InvoiceNumber
	doc.Detail.CurrencyCode = in.Currency
	doc.Detail.Note = in.Note
	doc.Invoicer = &struct {
		BusinessName string `json:"business_name,omitempty"`
		Website      string `json:"website,omitempty"`
		LogoURL      string `json:"logo_url,omitempty"`
	}{in.Merchant.BusinessName, in.Merchant.Website, in.Merchant.LogoURL}
	if in.PayerEmail != "" {
		var r recipient
		r.BillingInfo.EmailAddress = in.PayerEmail
		doc.PrimaryRecipients = []recipient{r}
	}
	for _, li := range in.Items {
		doc.Items = append(doc.Items, item{
			Name:       li.Name,
			Quantity:   "1",
			UnitAmount: money{CurrencyCode: in.Currency, Value: li.Value},
		})
	}

	var created invoiceDoc
	if err := c.do(ctx, http.MethodPost, "/v2/invoicing/invoices", doc, &created); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	if created.ID == "" {
		return nil, errors.New("create invoice: response carried no id")
	}
	send := map[string]bool{"send_to_invoicer": false, "send_to_recipient": in.PayerEmail != ""}
	if err := c.do(ctx, http.MethodPost, "/v2/invoicing/invoices/"+created.ID+"/send", send, nil); err != nil {
		return nil, fmt.Errorf("send invoice %s: %w", created.ID, err)
	}
	return c.GetInvoice(ctx, created.ID)
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var doc invoiceDoc
	if err := c.do(ctx, http.MethodGet, "/v2/invoicing/invoices/"+id, nil, &doc); err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	inv := &Invoice{ID: doc.ID, Status: doc.Status}
	if doc.Detail.Metadata != nil {
		inv.PayURL = doc.Detail.Metadata.RecipientViewURL
	}
	return inv, nil
}

// InvoiceStatus returns the processor status string, e.g. "SENT" or "PAID".
func (c *Client) InvoiceStatus(ctx context.Context, id string) (string, error) {
	inv, err := c.GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}
	return inv.Status, nil
}
