// Package notify delivers circulation notices to members' notification channels.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
)

// Logger writes notices to the structured log. It is the default when no webhook is configured.
type Logger struct{}

var _ circulation.Notifier = Logger{}

func (Logger) HoldAvailable(_ context.Context, n circulation.HoldNotice) error {
	slog.Info("hold available", "library_id", n.LibraryID, "copy_id", n.CopyID, "member_id", n.MemberID, "reason", n.Reason)
	return nil
}

func (Logger) HoldNeedsReassignment(_ context.Context, n circulation.HoldNotice) error {
	slog.Info("hold needs reassignment", "library_id", n.LibraryID, "copy_id", n.CopyID, "member_id", n.MemberID, "reason", n.Reason)
	return nil
}

func (Logger) Overdue(_ context.Context, n circulation.OverdueNotice) error {
	slog.Info("loan overdue", "library_id", n.LibraryID, "transaction_id", n.TransactionID, "member_id", n.MemberID, "due_date", n.DueDate)
	return nil
}

// Webhook POSTs each notice as JSON to a single endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

var _ circulation.Notifier = (*Webhook)(nil)

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{url: url, client: &http.Client{Timeout: timeout}}
}

type envelope struct {
	Kind          string     `json:"kind"`
	LibraryID     string     `json:"library_id"`
	CopyID        string     `json:"copy_id"`
	MemberID      string     `json:"member_id"`
	HoldID        string     `json:"hold_id,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

func holdEnvelope(kind string, n circulation.HoldNotice) envelope {
	return envelope{
		Kind:      kind,
		LibraryID: n.LibraryID.String(),
		CopyID:    n.CopyID.String(),
		MemberID:  n.MemberID.String(),
		HoldID:    n.HoldID.String(),
		Reason:    n.Reason,
	}
}

func (w *Webhook) HoldAvailable(ctx context.Context, n circulation.HoldNotice) error {
	return w.post(ctx, holdEnvelope("hold_available", n))
}

func (w *Webhook) HoldNeedsReassignment(ctx context.Context, n circulation.HoldNotice) error {
	return w.post(ctx, holdEnvelope("hold_needs_reassignment", n))
}

func (w *Webhook) Overdue(ctx context.Context, n circulation.OverdueNotice) error {
	return w.post(ctx, envelope{
		Kind:          "overdue",
		LibraryID:     n.LibraryID.String(),
		CopyID:        n.CopyID.String(),
		MemberID:      n.MemberID.String(),
		TransactionID: n.TransactionID.String(),
		DueDate:       &n.DueDate,
	})
}

func (w *Webhook) post(ctx context.Context, e envelope) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s notice: %w", e.Kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("posting %s notice: unexpected status %d", e.Kind, resp.StatusCode)
	}

	return nil
}
