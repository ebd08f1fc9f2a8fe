package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// HTTPDispatcher POSTs final reports as JSON. SendFinalReport never fails
// from the caller's point of view: every problem is logged and passed to the
// observer, so an unavailable endpoint cannot break a turn.
type HTTPDispatcher struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	observer   Observer
}

// NewHTTPDispatcher creates a dispatcher for url. An empty url disables
// delivery; attempts are then reported as skipped.
func NewHTTPDispatcher(url string, timeout time.Duration, httpClient *http.Client, observer Observer) *HTTPDispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPDispatcher{url: strings.TrimSpace(url), httpClient: httpClient, timeout: timeout, observer: observer}
}

func (d *HTTPDispatcher) SendFinalReport(ctx context.Context, r Report) {
	start := time.Now()
	out := Outcome{Report: r}

	if d.url == "" {
		out.Skipped = true
		log.Printf("report: no endpoint configured, skipping final report for session %s", r.SessionID)
	} else {
		out.StatusCode, out.Err = d.post(ctx, r)
		if out.Err != nil {
			log.Printf("report: failed to send final report for session %s: %v", r.SessionID, out.Err)
		} else {
			log.Printf("report: final report for session %s sent, status %d", r.SessionID, out.StatusCode)
		}
	}
	out.Duration = time.Since(start)

	if d.observer != nil {
		d.observer.ReportDispatched(ctx, out)
	}
}

func (d *HTTPDispatcher) post(ctx context.Context, r Report) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	body, err := json.Marshal(r)
	if err != nil {
		return 0, &DispatchError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return 0, &DispatchError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, &DispatchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, &DispatchError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
