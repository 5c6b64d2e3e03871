package xiangxinai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL    = "https://api.xiangxinai.cn/v1"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultUserAgent  = "xiangxinai-go/2.6.0"

	// DefaultModel is the text guardrail model used when no model is given.
	DefaultModel = "Xiangxin-Guardrails-Text"
	// DefaultVisionModel is the multimodal guardrail model used for image
	// checks when no model is given.
	DefaultVisionModel = "Xiangxin-Guardrails-VL"
)

// option is a function that configures the client
type option func(*cfg)

// WithAPIKey sets the API key for the client. An API key is required; you can
// create one in the Xiangxin AI console.
func WithAPIKey(apiKey string) option {
	return func(c *cfg) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets the API base URL. Unless you are running a private
// deployment of the guardrails service, there's no need to set this.
func WithBaseURL(baseURL string) option {
	return func(c *cfg) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-attempt request timeout. If not set, the default
// timeout is 30 seconds.
func WithTimeout(timeout time.Duration) option {
	return func(c *cfg) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets how many times a failed request is retried. Zero
// disables retries entirely; the default is 3.
func WithMaxRetries(maxRetries uint64) option {
	return func(c *cfg) {
		c.maxRetries = maxRetries
	}
}

// WithHTTPClient replaces the pooled HTTP client. Mostly useful for tests and
// for callers that need custom proxy or TLS settings.
func WithHTTPClient(httpClient *http.Client) option {
	return func(c *cfg) {
		c.httpClient = httpClient
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) option {
	return func(c *cfg) {
		c.userAgent = userAgent
	}
}

// cfg holds configuration for the guardrails client
type cfg struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
	userAgent  string
}

// Client talks to the Xiangxin AI guardrails API. It is safe for concurrent
// use; create it once and share it across goroutines. Call Close when the
// client is no longer needed to release pooled connections.
type Client struct {
	config *cfg
	http   *http.Client
}

// New creates a new guardrails client
func New(options ...option) (*Client, error) {
	config := &cfg{
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
		userAgent:  defaultUserAgent,
	}

	for _, option := range options {
		option(config)
	}

	if config.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	httpClient := config.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   config.timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		config: config,
		http:   httpClient,
	}, nil
}

// Close releases the pooled transport connections. You can do this with defer
// to ensure the client is always cleaned up.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

var (
	cleanupHandlers []func()
	cleanupMutex    sync.Mutex
	cleanupOnce     sync.Once
)

func setupCleanupHandler() {
	cleanupOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-ch
			cleanupMutex.Lock()
			defer cleanupMutex.Unlock()
			for _, handler := range cleanupHandlers {
				handler()
			}
			os.Exit(0)
		}()
	})
}

func addCleanupHandler(handler func()) {
	cleanupMutex.Lock()
	defer cleanupMutex.Unlock()
	cleanupHandlers = append(cleanupHandlers, handler)
	setupCleanupHandler()
}

// CloseOnExit registers the client for cleanup on SIGINT/SIGTERM. Useful for
// long lived clients that should always release their connections before the
// process exits.
func (c *Client) CloseOnExit() {
	addCleanupHandler(func() {
		c.Close()
	})
}

// CheckOption configures a single check call.
type CheckOption func(*checkOpts)

type checkOpts struct {
	model  string
	userID string
}

// WithModel selects the guardrail model for this check.
func WithModel(model string) CheckOption {
	return func(o *checkOpts) {
		o.model = model
	}
}

// WithUserID attaches the tenant application's end-user id to the request for
// user-level risk control and audit tracking. The client only passes it
// through; it is never interpreted locally.
func WithUserID(userID string) CheckOption {
	return func(o *checkOpts) {
		o.userID = strings.TrimSpace(userID)
	}
}

func applyCheckOptions(opts []CheckOption) checkOpts {
	var o checkOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CheckPrompt checks a single user prompt. Blank input short-circuits to the
// local safe sentinel without a network call; note that this client-side
// bypass means empty input is never seen by server-side policy.
//
// Example:
//
//	result, err := client.CheckPrompt(ctx, "I want to learn programming")
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.OverallRiskLevel) // "no_risk"
//	fmt.Println(result.SuggestAction)    // "pass"
func (c *Client) CheckPrompt(ctx context.Context, content string, opts ...CheckOption) (*GuardrailResponse, error) {
	o := applyCheckOptions(opts)

	content = strings.TrimSpace(content)
	if content == "" {
		return newSafeResponse(), nil
	}

	body := map[string]string{"input": content}
	if o.userID != "" {
		body["xxai_app_user_id"] = o.userID
	}

	var out GuardrailResponse
	if err := c.do(ctx, http.MethodPost, "/guardrails/input", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckResponseCtx checks an assistant response in the context of the user
// prompt that produced it. The prompt helps the guardrails understand the
// conversational semantics; the response is the actual detection target. If
// both are blank the local safe sentinel is returned without a network call.
func (c *Client) CheckResponseCtx(ctx context.Context, prompt, response string, opts ...CheckOption) (*GuardrailResponse, error) {
	o := applyCheckOptions(opts)

	prompt = strings.TrimSpace(prompt)
	response = strings.TrimSpace(response)
	if prompt == "" && response == "" {
		return newSafeResponse(), nil
	}

	body := map[string]string{
		"input":  prompt,
		"output": response,
	}
	if o.userID != "" {
		body["xxai_app_user_id"] = o.userID
	}

	var out GuardrailResponse
	if err := c.do(ctx, http.MethodPost, "/guardrails/output", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckConversation checks a multi-turn conversation as a whole rather than
// message by message, letting the guardrails use the full context. A nil or
// empty message list, or a nil message element, is a validation error.
// Messages whose text content is blank are dropped from the request; if every
// message is blank the local safe sentinel is returned without a network call.
//
// Example:
//
//	userMsg, _ := xiangxinai.NewMessage(xiangxinai.RoleUser, "Question")
//	assistantMsg, _ := xiangxinai.NewMessage(xiangxinai.RoleAssistant, "Answer")
//	result, err := client.CheckConversation(ctx, []*xiangxinai.Message{userMsg, assistantMsg})
func (c *Client) CheckConversation(ctx context.Context, messages []*Message, opts ...CheckOption) (*GuardrailResponse, error) {
	o := applyCheckOptions(opts)

	if len(messages) == 0 {
		return nil, &ValidationError{Detail: "messages cannot be empty"}
	}

	// The nil check must come before the all-blank short circuit: a broken
	// list is an error even when the remaining messages are empty.
	validated := make([]*Message, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			return nil, &ValidationError{Detail: "message cannot be nil"}
		}
		if isBlankContent(msg.Content) {
			continue
		}
		validated = append(validated, msg)
	}

	if len(validated) == 0 {
		return newSafeResponse(), nil
	}

	model := o.model
	if model == "" {
		model = DefaultModel
	}

	req := &GuardrailRequest{Model: model, Messages: validated}
	if o.userID != "" {
		req.ExtraBody = map[string]any{"xxai_app_user_id": o.userID}
	}

	var out GuardrailResponse
	if err := c.do(ctx, http.MethodPost, "/guardrails", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// isBlankContent reports whether message content carries nothing to check.
// Multimodal part lists count as blank only when empty.
func isBlankContent(content Content) bool {
	switch c := content.(type) {
	case Text:
		return strings.TrimSpace(string(c)) == ""
	case Parts:
		return len(c) == 0
	case nil:
		return true
	}
	return false
}

// CheckPromptImage checks a text prompt together with one image. The image is
// a local file path or an http(s) URL; it is loaded, base64-encoded and sent
// as a multimodal message part. The prompt may be empty, the image may not.
func (c *Client) CheckPromptImage(ctx context.Context, prompt, image string, opts ...CheckOption) (*GuardrailResponse, error) {
	if strings.TrimSpace(image) == "" {
		return nil, &ValidationError{Detail: "image path cannot be empty"}
	}
	return c.checkImages(ctx, prompt, []string{image}, opts)
}

// CheckPromptImages checks a text prompt together with multiple images. All
// images are encoded into content parts of a single multimodal message.
func (c *Client) CheckPromptImages(ctx context.Context, prompt string, images []string, opts ...CheckOption) (*GuardrailResponse, error) {
	if len(images) == 0 {
		return nil, &ValidationError{Detail: "images list cannot be empty"}
	}
	return c.checkImages(ctx, prompt, images, opts)
}

func (c *Client) checkImages(ctx context.Context, prompt string, images []string, opts []CheckOption) (*GuardrailResponse, error) {
	o := applyCheckOptions(opts)

	parts := make([]ContentPart, 0, len(images)+1)
	if p := strings.TrimSpace(prompt); p != "" {
		parts = append(parts, NewTextPart(p))
	}
	for _, image := range images {
		part, err := c.encodeImagePart(ctx, image)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	msg, err := NewMultimodalMessage(RoleUser, parts...)
	if err != nil {
		return nil, err
	}

	model := o.model
	if model == "" {
		model = DefaultVisionModel
	}

	req := &GuardrailRequest{Model: model, Messages: []*Message{msg}}
	if o.userID != "" {
		req.ExtraBody = map[string]any{"xxai_app_user_id": o.userID}
	}

	var out GuardrailResponse
	if err := c.do(ctx, http.MethodPost, "/guardrails", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck reports the API service health status.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/guardrails/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Models lists the guardrail models available to the account.
func (c *Client) Models(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/guardrails/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one API call with the retry policy applied: authentication and
// validation failures (and undecodable success bodies) are permanent,
// everything else is retried up to maxRetries times with the delays computed
// by requestBackOff.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else if method == http.MethodPost {
		payload = []byte("{}")
	}

	policy := &requestBackOff{}
	operation := func() error {
		err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}

		var rateLimitErr *RateLimitError
		policy.rateLimited = errors.As(err, &rateLimitErr)

		if !isRetriableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, c.config.maxRetries), ctx))
}

// doOnce performs a single HTTP attempt and maps the outcome onto the error
// taxonomy.
func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out any) error {
	var bodyReader io.Reader
	if len(payload) > 0 {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Detail: "failed to read response body", Err: err}
	}

	return handleResponse(resp.StatusCode, respBody, out)
}

func handleResponse(statusCode int, body []byte, out any) error {
	if statusCode >= 200 && statusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{Detail: "invalid API key"}
	case http.StatusUnprocessableEntity:
		return &ValidationError{Detail: parseErrorDetail(body)}
	case http.StatusTooManyRequests:
		return &RateLimitError{Detail: "rate limit exceeded"}
	default:
		return &APIError{StatusCode: statusCode, Detail: parseErrorDetail(body)}
	}
}

// parseErrorDetail extracts the detail field from an error body, falling back
// to the raw body when it isn't the documented JSON shape.
func parseErrorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return string(body)
}
