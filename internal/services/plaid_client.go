package services

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
)

// PlaidClient is a thin wrapper over the Plaid REST API. It only covers
// the calls the bank-linking flow needs.
type PlaidClient struct {
	clientID   string
	secret     string
	baseURL    string
	httpClient *http.Client
}

func NewPlaidClient(clientID, secret, environment string) *PlaidClient {
	baseURL := "https://production.plaid.com"
	switch environment {
	case "sandbox":
		baseURL = "https://sandbox.plaid.com"
	case "development":
		baseURL = "https://development.plaid.com"
	}

	return &PlaidClient{
		clientID:   clientID,
		secret:     secret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PlaidClient) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

func (c *PlaidClient) SetBaseURL(baseURL string) {
	if strings.TrimSpace(baseURL) != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func (c *PlaidClient) post(ctx context.Context, path string, payload map[string]any, out any) error {
	if strings.TrimSpace(c.clientID) == "" || strings.TrimSpace(c.secret) == "" {
		return errors.New("plaid client_id/secret are required")
	}

	payload["client_id"] = c.clientID
	payload["secret"] = c.secret
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("plaid %s failed: status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.Unmarshal(body, out)
}

// CreateLinkToken starts a Plaid Link session for the given user.
func (c *PlaidClient) CreateLinkToken(ctx context.Context, clientUserID string) (string, error) {
	payload := map[string]any{
		"client_name":   "SnackReach",
		"language":      "en",
		"country_codes": []string{"US"},
		"products":      []string{"auth"},
		"user": map[string]string{
			"client_user_id": clientUserID,
		},
	}

	var out struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.post(ctx, "/link/token/create", payload, &out); err != nil {
		return "", err
	}
	if out.LinkToken == "" {
		return "", errors.New("plaid response missing link_token")
	}
	return out.LinkToken, nil
}

// ExchangePublicToken trades the short-lived public token from Link for a
// persistent access token.
func (c *PlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken string, itemID string, err error) {
	payload := map[string]any{
		"public_token": publicToken,
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.post(ctx, "/item/public_token/exchange", payload, &out); err != nil {
		return "", "", err
	}
	if out.AccessToken == "" {
		return "", "", errors.New("plaid response missing access_token")
	}
	return out.AccessToken, out.ItemID, nil
}

// CreateStripeBankAccountToken produces a Stripe-compatible bank account
// token for a verified Plaid account.
func (c *PlaidClient) CreateStripeBankAccountToken(ctx context.Context, accessToken string, accountID string) (string, error) {
	payload := map[string]any{
		"access_token": accessToken,
		"account_id":   accountID,
	}

	var out struct {
		StripeBankAccountToken string `json:"stripe_bank_account_token"`
	}
	if err := c.post(ctx, "/processor/stripe/bank_account_token/create", payload, &out); err != nil {
		return "", err
	}
	if out.StripeBankAccountToken == "" {
		return "", errors.New("plaid response missing stripe_bank_account_token")
	}
	return out.StripeBankAccountToken, nil
}
