package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StripeClient talks to the Stripe REST API directly. Payloads are
// form-encoded per Stripe's convention.
type StripeClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *StripeClient) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

func (c *StripeClient) SetBaseURL(baseURL string) {
	if strings.TrimSpace(baseURL) != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if strings.TrimSpace(c.secretKey) == "" {
		return errors.New("stripe secret key is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stripe %s failed: status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.Unmarshal(body, out)
}

// CreateCustomer registers a Stripe customer for a marketplace user.
func (c *StripeClient) CreateCustomer(ctx context.Context, email string, name string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	if name != "" {
		form.Set("name", name)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "/v1/customers", form, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("stripe response missing customer id")
	}
	return out.ID, nil
}

type StripeBankAccount struct {
	ID       string `json:"id"`
	BankName string `json:"bank_name"`
	Last4    string `json:"last4"`
	Status   string `json:"status"`
}

// AttachBankAccount attaches a Plaid-issued bank account token to the
// customer as a payment source.
func (c *StripeClient) AttachBankAccount(ctx context.Context, customerID string, bankAccountToken string) (*StripeBankAccount, error) {
	form := url.Values{}
	form.Set("source", bankAccountToken)

	var out StripeBankAccount
	if err := c.postForm(ctx, "/v1/customers/"+url.PathEscape(customerID)+"/sources", form, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("stripe response missing source id")
	}
	return &out, nil
}
