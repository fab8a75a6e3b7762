package recaptcha

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"

	realclientip "github.com/realclientip/realclientip-go"
)

var (
	errNilRequest  = errors.New("request is nil")
	errNilResponse = errors.New("response is nil")
)

type HTTPRequest struct {
	body     []byte
	remoteIP string
}

var _ InboundRequest = (*HTTPRequest)(nil)

func NewRequest(body []byte, remoteIP string) *HTTPRequest {
	return &HTTPRequest{body: body, remoteIP: remoteIP}
}

// NewHTTPRequest reads the body of r and puts an identical reader back, so r can still be consumed
// by the next handler. A body over maxBodySize (when positive) fails with *http.MaxBytesError.
// Client IP is resolved with strategy when it's set.
func NewHTTPRequest(r *http.Request, maxBodySize int64, strategy realclientip.Strategy) (*HTTPRequest, error) {
	if r == nil {
		return nil, errNilRequest
	}

	var body []byte
	if r.Body != nil {
		var reader io.Reader = r.Body
		if maxBodySize > 0 {
			reader = http.MaxBytesReader(nil, r.Body, maxBodySize)
		}

		var err error
		body, err = io.ReadAll(reader)
		if err != nil {
			return nil, err
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	return &HTTPRequest{
		body:     body,
		remoteIP: clientIP(strategy, r),
	}, nil
}

func clientIP(strategy realclientip.Strategy, r *http.Request) string {
	var ip string
	if strategy != nil {
		ip = strategy.ClientIP(r.Header, r.RemoteAddr)
	}

	if len(ip) == 0 {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}

	// zone is of no interest to the provider
	ip, _ = realclientip.SplitHostZone(ip)

	return ip
}

func (r *HTTPRequest) Body() []byte {
	if r == nil {
		return nil
	}

	return r.body
}

func (r *HTTPRequest) RemoteIP() string {
	if r == nil {
		return ""
	}

	return r.remoteIP
}

type HTTPResponse struct {
	code int
	body string
}

var _ OutboundResponse = (*HTTPResponse)(nil)

func NewResponse(code int, body string) *HTTPResponse {
	return &HTTPResponse{code: code, body: body}
}

// NewHTTPResponse consumes and closes the body of resp
func NewHTTPResponse(resp *http.Response) (*HTTPResponse, error) {
	if resp == nil {
		return nil, errNilResponse
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &HTTPResponse{code: resp.StatusCode, body: string(data)}, nil
}

func (r *HTTPResponse) StatusCode() int {
	if r == nil {
		return 0
	}

	return r.code
}

func (r *HTTPResponse) Body() string {
	if r == nil {
		return ""
	}

	return r.body
}
