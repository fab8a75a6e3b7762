package recaptcha

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"golang.org/x/crypto/blake2b"
)

const (
	DefaultEndpoint = "http://www.google.com/recaptcha/api/verify"

	ParamChallenge  = "challenge"
	ParamResponse   = "response"
	ParamRemoteIP   = "remoteip"
	ParamPrivateKey = "privatekey"

	fieldRecaptcha = "recaptcha"
	successMarker  = "true"
)

var (
	ErrConfiguration = errors.New("recaptcha: invalid configuration")
)

// HTTPClient is the outbound transport. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// InboundRequest is the part of an incoming request the verification needs.
type InboundRequest interface {
	Body() []byte
	RemoteIP() string
}

// OutboundResponse is the reply of the verify endpoint.
type OutboundResponse interface {
	StatusCode() int
	Body() string
}

type Params map[string]string

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if len(endpoint) > 0 {
			c.endpoint = endpoint
		}
	}
}

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// Client checks challenge/response pairs against the legacy reCAPTCHA verify API.
// It only holds read-only state and can be shared between goroutines.
type Client struct {
	privateKey string
	endpoint   string
	httpClient HTTPClient
}

func NewClient(privateKey string, opts ...Option) (*Client, error) {
	if len(privateKey) == 0 {
		return nil, fmt.Errorf("%w: private key cannot be empty", ErrConfiguration)
	}

	c := &Client{
		privateKey: privateKey,
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// KeyFingerprint identifies the configured private key in logs without revealing it
func (c *Client) KeyFingerprint() string {
	sum := blake2b.Sum256([]byte(c.privateKey))
	return hex.EncodeToString(sum[:4])
}

// ExtractParams pulls challenge and response out of the JSON body of the request:
//
//	{"recaptcha": {"challenge": "...", "response": "..."}}
//
// and adds the remote IP of the request. The request is never modified.
func (c *Client) ExtractParams(ctx context.Context, request InboundRequest) (bool, Params) {
	if request == nil {
		slog.WarnContext(ctx, "Called without a proper request")
		return false, Params{}
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(request.Body(), &data); err != nil {
		slog.WarnContext(ctx, "Failed to parse request body", common.ErrAttr(err))
		return false, Params{}
	}

	raw, ok := data[fieldRecaptcha]
	if !ok {
		slog.WarnContext(ctx, "No recaptcha data found in request")
		return false, Params{}
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		slog.WarnContext(ctx, "Recaptcha data is not an object", common.ErrAttr(err))
		return false, Params{}
	}

	params := make(Params, 3)
	for _, key := range []string{ParamChallenge, ParamResponse} {
		value, ok := fields[key].(string)
		if !ok {
			slog.WarnContext(ctx, "Field not found in recaptcha data", "field", key)
			return false, Params{}
		}

		params[key] = value
	}

	params[ParamRemoteIP] = request.RemoteIP()

	return true, params
}

// ParseOutcome interprets the plaintext reply of the verify endpoint. The second value is the
// error code reported by the provider and is empty on success or when none is available.
func (c *Client) ParseOutcome(ctx context.Context, response OutboundResponse) (bool, string) {
	if response == nil {
		slog.WarnContext(ctx, "Called without a proper response")
		return false, ""
	}

	if code := response.StatusCode(); code != http.StatusOK {
		slog.WarnContext(ctx, "Verify endpoint returned non-200 response", "code", code)
		return false, ""
	}

	body := response.Body()

	// NOTE: substring match, so any body mentioning "true" counts as success
	if strings.Contains(body, successMarker) {
		slog.DebugContext(ctx, "Successful challenge")
		return true, ""
	}

	lines := splitLines(body)
	if len(lines) == 0 {
		slog.WarnContext(ctx, "Failed challenge with empty response")
		return false, ""
	}

	errorCode := lines[len(lines)-1]
	slog.WarnContext(ctx, "Failed challenge", "reason", errorCode)

	return false, errorCode
}

// Verify returns true only when the provider confirmed the challenge was solved.
// Every other outcome, including transport failures, is false.
func (c *Client) Verify(ctx context.Context, request InboundRequest) bool {
	ok, params := c.ExtractParams(ctx, request)
	if !ok {
		slog.WarnContext(ctx, "Failed to extract params")
		return false
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set(ParamPrivateKey, c.privateKey)

	response, err := c.post(ctx, form)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to call verify endpoint", common.ErrAttr(err))
		return false
	}

	success, _ := c.ParseOutcome(ctx, response)

	return success
}

// VerifyAsync runs Verify in the background and delivers exactly one result
func (c *Client) VerifyAsync(ctx context.Context, request InboundRequest) <-chan bool {
	result := make(chan bool, 1)

	go func() {
		defer close(result)
		result <- c.Verify(ctx, request)
	}()

	return result
}

func (c *Client) post(ctx context.Context, form url.Values) (*HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set(common.HeaderContentType, common.ContentTypeURLEncoded)

	slog.Log(ctx, common.LevelTrace, "Calling verify endpoint", "endpoint", c.endpoint, "key", c.KeyFingerprint())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	return NewHTTPResponse(resp)
}

// splitLines breaks s on \n, \r\n and \r. A trailing line break does not produce an empty line.
func splitLines(s string) []string {
	var lines []string

	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i == -1 {
			lines = append(lines, s)
			break
		}

		lines = append(lines, s[:i])

		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}

		s = s[i+1:]
	}

	return lines
}
