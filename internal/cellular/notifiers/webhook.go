package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/daniacca/metabocell/internal/cellular"
)

// Step metadata is repeated in headers so receivers can route or dedupe
// without decoding the body.
const (
	HeaderEventID  = "X-Cellsim-Event-ID"
	HeaderTissueID = "X-Cellsim-Tissue-ID"
	HeaderTick     = "X-Cellsim-Tick"
)

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHeader adds a static header to every request.
func WithHeader(key, value string) WebhookOption {
	return func(wn *WebhookNotifier) { wn.headers[key] = value }
}

// WithTissues restricts delivery to events from the given tissues.
func WithTissues(ids ...cellular.TissueID) WebhookOption {
	return func(wn *WebhookNotifier) {
		for _, id := range ids {
			wn.tissues[id] = true
		}
	}
}

// WithHTTPClient replaces the default client (5s timeout).
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(wn *WebhookNotifier) { wn.client = c }
}

// WebhookNotifier POSTs step events as JSON to a URL.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
	tissues map[cellular.TissueID]bool
}

func NewWebhookNotifier(id, url string, opts ...WebhookOption) *WebhookNotifier {
	wn := &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
		tissues: make(map[cellular.TissueID]bool),
	}
	for _, opt := range opts {
		opt(wn)
	}
	return wn
}

func (wn *WebhookNotifier) ID() string   { return wn.id }
func (wn *WebhookNotifier) Type() string { return "webhook" }
func (wn *WebhookNotifier) URL() string  { return wn.url }

// Accepts reports whether events from tissue are delivered. With no tissue
// filter every tissue is accepted.
func (wn *WebhookNotifier) Accepts(tissue cellular.TissueID) bool {
	return len(wn.tissues) == 0 || wn.tissues[tissue]
}

// Notify delivers the event. Events from filtered-out tissues are skipped
// without error; non-2xx responses are errors so the manager retries them.
func (wn *WebhookNotifier) Notify(ctx context.Context, event cellular.StepEvent) error {
	if !wn.Accepts(event.TissueID) {
		return nil
	}

	body, err := event.JSON()
	if err != nil {
		return fmt.Errorf("encode step event %s: %w", event.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	for key, value := range wn.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEventID, event.ID)
	req.Header.Set(HeaderTissueID, string(event.TissueID))
	req.Header.Set(HeaderTick, strconv.FormatInt(event.Report.Tick, 10))

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver tick %d of tissue %s: %w", event.Report.Tick, event.TissueID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("deliver tick %d of tissue %s: webhook returned %s", event.Report.Tick, event.TissueID, resp.Status)
	}
	return nil
}

// Close is a no-op; requests are bounded by the client timeout.
func (wn *WebhookNotifier) Close() error {
	return nil
}
