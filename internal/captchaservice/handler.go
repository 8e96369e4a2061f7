package captchaservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var ErrMissingSecret = errors.New("captcha secret is not configured")

// DefaultEndpoint is the hCaptcha verification endpoint. The provider's
// siteverify protocol is also spoken by reCAPTCHA and Turnstile.
const DefaultEndpoint = "https://hcaptcha.com/siteverify"

type CaptchaService struct {
	client   *http.Client
	endpoint string
	secret   string
}

func NewCaptchaService(endpoint, secret string, client *http.Client) *CaptchaService {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CaptchaService{client: client, endpoint: endpoint, secret: secret}
}

type Result struct {
	OK    bool     `json:"ok"`
	Codes []string `json:"codes,omitempty"`
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify forwards the client token plus the server secret to the provider in a
// single attempt and maps the provider's answer onto a Result. A provider
// rejection is a valid Result, not an error; errors mean the call itself
// failed.
func (s *CaptchaService) Verify(ctx context.Context, token string) (*Result, error) {
	if s.secret == "" {
		return nil, ErrMissingSecret
	}

	form := url.Values{
		"secret":   {s.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("captcha provider returned status %d", res.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("could not decode captcha provider response: %w", err)
	}

	return &Result{OK: body.Success, Codes: body.ErrorCodes}, nil
}
