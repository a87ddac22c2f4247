// Package daraja is a client for the Safaricom Daraja API: OAuth token
// issuance and Lipa Na M-Pesa Online (STK push) payment requests.
package daraja

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arrotech/codarena/internal/platform/resilience"
)

var errDarajaTransient = crerr.New("daraja transient failure")

// ErrPushRejected reports an STK push the gateway refused synchronously
// with a non-zero response code.
var ErrPushRejected = crerr.New("daraja rejected stk push")

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	client         *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      string
	passkey        string
	callbackURL    string
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	now            func() time.Time

	tokenMu      sync.Mutex
	token        string
	tokenExpires time.Time
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		consumerKey:    strings.TrimSpace(cfg.ConsumerKey),
		consumerSecret: strings.TrimSpace(cfg.ConsumerSecret),
		shortCode:      strings.TrimSpace(cfg.ShortCode),
		passkey:        strings.TrimSpace(cfg.Passkey),
		callbackURL:    strings.TrimSpace(cfg.CallbackURL),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// STKPushRequest describes one payment prompt to push to a subscriber's
// phone. PhoneNumber must already be in international format without a
// plus sign.
type STKPushRequest struct {
	Amount           int64
	PhoneNumber      string
	AccountReference string
	Description      string
}

// STKPushResponse carries the gateway-issued request identifiers. The
// asynchronous result callback is correlated by the pair of IDs.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// STKPush requests the gateway to prompt the subscriber for payment.
// A non-zero ResponseCode returns ErrPushRejected; transport failures and
// retryable statuses trip the circuit breaker.
func (c *Client) STKPush(ctx context.Context, input STKPushRequest) (STKPushResponse, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "daraja circuit breaker rejected request", "state", c.breaker.State())
			return STKPushResponse{}, fmt.Errorf("daraja is temporarily unavailable: %w", err)
		}
	}

	baseURL, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return STKPushResponse{}, crerr.Wrap(err, "invalid DARAJA_BASE_URL")
	}
	if input.Amount < 1 {
		return STKPushResponse{}, crerr.New("amount must be at least 1")
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return STKPushResponse{}, crerr.New("phone number is required")
	}

	token, err := c.accessToken(ctx, baseURL)
	if err != nil {
		c.recordCircuitResult(err)
		return STKPushResponse{}, err
	}

	timestamp := c.now().UTC().Format("20060102150405")
	payload := stkPushPayload{
		BusinessShortCode: c.shortCode,
		Password:          base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passkey + timestamp)),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            input.Amount,
		PartyA:            input.PhoneNumber,
		PartyB:            c.shortCode,
		PhoneNumber:       input.PhoneNumber,
		CallBackURL:       c.callbackURL,
		AccountReference:  input.AccountReference,
		TransactionDesc:   input.Description,
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return STKPushResponse{}, crerr.Wrap(err, "marshal stk push payload")
	}

	pushURL := baseURL + "/mpesa/stkpush/v1/processrequest"
	curlPreview := buildCurlPreview(pushURL, redactPushBody(payload))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("daraja.push_url", pushURL),
			attribute.String("daraja.account_reference", input.AccountReference),
			attribute.String("daraja.request_curl_preview", curlPreview),
		)
	}
	c.logger.InfoContext(ctx, "daraja stk push request",
		"account_reference", input.AccountReference,
		"amount", input.Amount,
		"curl_preview", curlPreview,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushURL, strings.NewReader(string(body)))
	if err != nil {
		return STKPushResponse{}, crerr.Wrap(err, "create stk push request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: stk push url=%s: %v", errDarajaTransient, pushURL, err)
		c.recordCircuitResult(callErr)
		return STKPushResponse{}, callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		callErr := fmt.Errorf("%w: read stk push response: %v", errDarajaTransient, err)
		c.recordCircuitResult(callErr)
		return STKPushResponse{}, callErr
	}

	if resp.StatusCode/100 != 2 {
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf("%w: stk push status=%d body=%s", errDarajaTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
			c.recordCircuitResult(callErr)
			return STKPushResponse{}, callErr
		}
		callErr := fmt.Errorf("stk push status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
		c.recordCircuitResult(callErr)
		return STKPushResponse{}, callErr
	}

	var out STKPushResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return STKPushResponse{}, crerr.Wrap(err, "decode stk push response")
	}
	if out.ResponseCode != "0" {
		c.recordCircuitResult(nil)
		return out, fmt.Errorf("%w: code=%s description=%s", ErrPushRejected, out.ResponseCode, out.ResponseDescription)
	}

	c.logger.InfoContext(ctx, "daraja stk push accepted",
		"merchant_request_id", out.MerchantRequestID,
		"checkout_request_id", out.CheckoutRequestID,
	)
	c.recordCircuitResult(nil)
	return out, nil
}

// accessToken returns a cached OAuth token, refreshing it via the
// client-credentials grant when missing or within a minute of expiry.
func (c *Client) accessToken(ctx context.Context, baseURL string) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpires.Add(-time.Minute)) {
		return c.token, nil
	}

	tokenURL := baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", crerr.Wrap(err, "create token request")
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch daraja token: %v", errDarajaTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %v", errDarajaTransient, err)
	}
	if resp.StatusCode/100 != 2 {
		if isRetryableStatus(resp.StatusCode) {
			return "", fmt.Errorf("%w: fetch daraja token status=%d", errDarajaTransient, resp.StatusCode)
		}
		return "", fmt.Errorf("fetch daraja token status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var tok tokenResponse
	if err := sonic.Unmarshal(raw, &tok); err != nil {
		return "", crerr.Wrap(err, "decode token response")
	}
	if tok.AccessToken == "" {
		return "", crerr.New("token response missing access_token")
	}

	ttl := 50 * time.Minute
	if seconds, parseErr := time.ParseDuration(strings.TrimSpace(tok.ExpiresIn) + "s"); parseErr == nil && seconds > 0 {
		ttl = seconds
	}
	c.token = tok.AccessToken
	c.tokenExpires = c.now().Add(ttl)

	return c.token, nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func redactPushBody(payload stkPushPayload) string {
	payload.Password = "***"
	body, err := sonic.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(body)
}

func buildCurlPreview(pushURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(pushURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: Bearer ***"))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errDarajaTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
