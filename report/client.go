// Package report fetches attendance reports from the attendance service and
// renders them as chat text.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"ecapbot/models"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one fetch.
const DefaultTimeout = 30 * time.Second

const maxBody = 1 << 20

// Fetcher retrieves the raw attendance report for a login pair.
type Fetcher interface {
	Fetch(ctx context.Context, username, password string) (*models.AttendanceReport, error)
}

// Client talks to the attendance service over HTTP.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch posts the login pair and decodes the report. Every error is a
// *FetchError. A 2xx payload carrying an error field is returned as a report,
// not an error.
func (c *Client) Fetch(ctx context.Context, username, password string) (*models.AttendanceReport, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, &FetchError{Kind: RequestFailure, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[REPORT] request setup error: %v", err)
		return nil, &FetchError{Kind: RequestFailure, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log.Printf("[REPORT] fetch user=%s request=%s", username, requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		kind := transportKind(err)
		log.Printf("[REPORT] %s request=%s: %v", kind, requestID, err)
		return nil, &FetchError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		log.Printf("[REPORT] reading response request=%s: %v", requestID, err)
		return nil, &FetchError{Kind: UpstreamUnreachable, Err: err}
	}
	log.Printf("[REPORT] response request=%s status=%d took=%s", requestID, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := &FetchError{Kind: UpstreamRejected, Status: resp.StatusCode}
		if r, err := DecodeReport(body); err == nil {
			fe.Message = r.Error
		}
		log.Printf("[REPORT] rejected request=%s: %v", requestID, fe)
		return nil, fe
	}

	r, err := DecodeReport(body)
	if err != nil {
		return nil, &FetchError{Kind: UpstreamRejected, Status: resp.StatusCode, Message: "invalid report payload", Err: err}
	}
	return r, nil
}

// transportKind separates failures to reach the service from requests the
// client refused to send, such as an unsupported scheme or a missing host.
func transportKind(err error) ErrorKind {
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return UpstreamUnreachable
		}
		err = ue.Err
	}
	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET):
		return UpstreamUnreachable
	default:
		return RequestFailure
	}
}
