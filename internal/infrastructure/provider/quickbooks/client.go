package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

type ClientConfig struct {
	BaseURL           string
	MinorVersion      int
	QueryMaxResults   int
	RequestsPerMinute int
	Timeout           time.Duration
}

// ClientFactory shares one HTTP client and rate limiter across realm clients
type ClientFactory struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClientFactory(cfg ClientConfig, httpClient *http.Client, logger *zap.Logger) *ClientFactory {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.QueryMaxResults <= 0 {
		cfg.QueryMaxResults = 1000
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 10)
	}

	return &ClientFactory{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

func (f *ClientFactory) NewClient(realmID, accessToken string) provider.AccountingClient {
	return &Client{
		factory:     f,
		realmID:     realmID,
		accessToken: accessToken,
	}
}

// Client is bound to one realm and access token
type Client struct {
	factory     *ClientFactory
	realmID     string
	accessToken string
}

// QueryInvoices pages through the query endpoint until a short page is returned
func (c *Client) QueryInvoices(ctx context.Context, modifiedSince *time.Time) ([]*provider.Invoice, error) {
	pageSize := c.factory.cfg.QueryMaxResults
	invoices := make([]*provider.Invoice, 0)

	for start := 1; ; start += pageSize {
		q := "SELECT * FROM Invoice"
		if modifiedSince != nil {
			q += fmt.Sprintf(" WHERE MetaData.LastUpdatedTime > '%s'", modifiedSince.UTC().Format(time.RFC3339))
		}
		q += fmt.Sprintf(" STARTPOSITION %d MAXRESULTS %d", start, pageSize)

		var resp queryResponse
		if err := c.query(ctx, q, &resp); err != nil {
			return nil, err
		}

		for _, raw := range resp.QueryResponse.Invoice {
			invoice, err := decodeInvoice(raw)
			if err != nil {
				invoice = &provider.Invoice{
					ID:        invoiceID(raw),
					Raw:       raw,
					DecodeErr: fmt.Errorf("failed to decode invoice: %w", err),
				}
				c.factory.logger.Warn("Skipping undecodable invoice",
					zap.String("realm_id", c.realmID),
					zap.String("external_id", invoice.ID),
					zap.Error(err),
				)
			}
			invoices = append(invoices, invoice)
		}

		if len(resp.QueryResponse.Invoice) < pageSize {
			return invoices, nil
		}
	}
}

func (c *Client) GetInvoice(ctx context.Context, externalID string) (*provider.Invoice, error) {
	body, err := c.get(ctx, "/invoice/"+url.PathEscape(externalID), nil, "application/json")
	if err != nil {
		return nil, err
	}

	var env invoiceEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse invoice response: %w", err)
	}
	if len(env.Invoice) == 0 {
		return nil, fmt.Errorf("invoice %s missing from response", externalID)
	}
	return decodeInvoice(env.Invoice)
}

func (c *Client) GetInvoicePDF(ctx context.Context, externalID string) ([]byte, error) {
	return c.get(ctx, "/invoice/"+url.PathEscape(externalID)+"/pdf", nil, "application/pdf")
}

func (c *Client) SearchCustomers(ctx context.Context, term string) ([]*provider.Customer, error) {
	q := fmt.Sprintf("SELECT * FROM Customer WHERE DisplayName LIKE '%%%s%%' MAXRESULTS 50", escapeQueryValue(term))

	var resp queryResponse
	if err := c.query(ctx, q, &resp); err != nil {
		return nil, err
	}

	customers := make([]*provider.Customer, 0, len(resp.QueryResponse.Customer))
	for _, dto := range resp.QueryResponse.Customer {
		customers = append(customers, dto.toCustomer())
	}
	return customers, nil
}

func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.get(ctx, "/companyinfo/"+url.PathEscape(c.realmID), nil, "application/json")
	if err != nil {
		c.factory.logger.Warn("QuickBooks connection test failed",
			zap.String("realm_id", c.realmID),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (c *Client) query(ctx context.Context, q string, out interface{}) error {
	body, err := c.get(ctx, "/query", url.Values{"query": {q}}, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse query response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, accept string) ([]byte, error) {
	if err := c.factory.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = url.Values{}
	}
	if c.factory.cfg.MinorVersion > 0 {
		params.Set("minorversion", strconv.Itoa(c.factory.cfg.MinorVersion))
	}

	endpoint := strings.TrimRight(c.factory.cfg.BaseURL, "/") +
		"/v3/company/" + url.PathEscape(c.realmID) + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", accept)

	resp, err := c.factory.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.factory.logger.Warn("QuickBooks request failed",
			zap.String("realm_id", c.realmID),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, &provider.RequestFailedError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}

func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
