package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const siteVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type TurnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
	Challenge  string   `json:"challenge_ts"`
	Action     string   `json:"action"`
}

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type Turnstile struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewVerifier secret boşsa her token'ı kabul eden bir Verifier döner
func NewVerifier(secret string) Verifier {
	if secret == "" {
		return Disabled{}
	}
	return NewTurnstile(secret, siteVerifyURL)
}

func NewTurnstile(secret, verifyURL string) *Turnstile {
	return &Turnstile{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify token'ı Cloudflare'e doğrulatır
func (t *Turnstile) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Add("secret", t.secret)
	form.Add("response", token)
	if remoteIP != "" {
		form.Add("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("turnstile verify: %w", err)
	}
	defer resp.Body.Close()

	var result TurnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("turnstile verify: decode: %w", err)
	}
	return result.Success, nil
}

type Disabled struct{}

func (Disabled) Verify(context.Context, string, string) (bool, error) { return true, nil }
