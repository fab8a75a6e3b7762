package recaptcha

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	realclientip "github.com/realclientip/realclientip-go"
)

func TestNewHTTPRequest(t *testing.T) {
	t.Parallel()

	const body = `{"recaptcha":{"challenge":"a","response":"b"}}`

	testCases := []struct {
		header     string
		value      string
		remoteAddr string
		expected   string
	}{
		{"", "", "10.0.0.1:1234", "10.0.0.1"},
		{"X-Real-IP", "123.123.123.123", "10.0.0.1:1234", "123.123.123.123"},
		{"X-Real-IP", "", "10.0.0.1:1234", "10.0.0.1"},
		{"", "", "[fe80::1%eth0]:1234", "fe80::1"},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("httpRequest_%v", i), func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(body))
			r.RemoteAddr = tc.remoteAddr

			var strategy realclientip.Strategy
			if len(tc.header) > 0 {
				strategy = realclientip.Must(realclientip.NewSingleIPHeaderStrategy(tc.header))
				if len(tc.value) > 0 {
					r.Header.Set(tc.header, tc.value)
				}
			}

			request, err := NewHTTPRequest(r, 1024, strategy)
			if err != nil {
				t.Fatal(err)
			}

			if request.RemoteIP() != tc.expected {
				t.Errorf("Actual IP (%v) is different from expected (%v)", request.RemoteIP(), tc.expected)
			}

			if string(request.Body()) != body {
				t.Errorf("Actual body (%v) is different from expected (%v)", string(request.Body()), body)
			}

			// body is still readable downstream
			rest, _ := io.ReadAll(r.Body)
			if string(rest) != body {
				t.Errorf("Request body was not restored")
			}
		})
	}
}

func TestNewHTTPRequestTooLarge(t *testing.T) {
	t.Parallel()

	body := `{"recaptcha":{"challenge":"a","response":"` + strings.Repeat("b", 64) + `"}}`
	r := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(body))

	_, err := NewHTTPRequest(r, 16, nil)

	var maxBytesErr *http.MaxBytesError
	if !errors.As(err, &maxBytesErr) {
		t.Fatalf("Actual error (%v) is different from expected (%T)", err, maxBytesErr)
	}

	if maxBytesErr.Limit != 16 {
		t.Errorf("Actual limit (%v) is different from expected (%v)", maxBytesErr.Limit, 16)
	}

	r = httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(body))
	request, err := NewHTTPRequest(r, int64(len(body)), nil)
	if err != nil {
		t.Fatal(err)
	}

	if string(request.Body()) != body {
		t.Errorf("Body of exactly the limit size was not read fully")
	}
}

func TestNewHTTPRequestNil(t *testing.T) {
	t.Parallel()

	if _, err := NewHTTPRequest(nil, 0, nil); err == nil {
		t.Error("Expected an error for nil request")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestNewHTTPResponse(t *testing.T) {
	t.Parallel()

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("false\nincorrect-captcha-sol")),
	}

	response, err := NewHTTPResponse(resp)
	if err != nil {
		t.Fatal(err)
	}

	if response.StatusCode() != http.StatusOK {
		t.Errorf("Unexpected status code %v", response.StatusCode())
	}

	if response.Body() != "false\nincorrect-captcha-sol" {
		t.Errorf("Unexpected body %q", response.Body())
	}

	if _, err := NewHTTPResponse(&http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(errReader{})}); err == nil {
		t.Error("Expected an error for broken body")
	}

	if _, err := NewHTTPResponse(nil); err == nil {
		t.Error("Expected an error for nil response")
	}
}
