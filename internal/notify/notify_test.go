package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/notify"
)

func TestWebhook_PostsNotices(t *testing.T) {
	var got []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, body)

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	hook := notify.NewWebhook(srv.URL, time.Second)
	ctx := context.Background()

	hold := circulation.HoldNotice{
		LibraryID: uuid.New(),
		CopyID:    uuid.New(),
		HoldID:    uuid.New(),
		MemberID:  uuid.New(),
		Reason:    circulation.ReasonCopyLost,
	}
	require.NoError(t, hook.HoldNeedsReassignment(ctx, hold))

	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, hook.Overdue(ctx, circulation.OverdueNotice{
		LibraryID:     uuid.New(),
		TransactionID: uuid.New(),
		CopyID:        uuid.New(),
		MemberID:      uuid.New(),
		DueDate:       due,
	}))

	require.Len(t, got, 2)
	assert.Equal(t, "hold_needs_reassignment", got[0]["kind"])
	assert.Equal(t, "copy_lost", got[0]["reason"])
	assert.NotContains(t, got[0], "due_date")
	assert.Equal(t, "overdue", got[1]["kind"])
	assert.Equal(t, "2025-02-01T00:00:00Z", got[1]["due_date"])
}

func TestWebhook_FailingEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := notify.NewWebhook(srv.URL, time.Second).HoldAvailable(context.Background(), circulation.HoldNotice{})
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestLogger_NeverFails(t *testing.T) {
	var l notify.Logger

	assert.NoError(t, l.HoldAvailable(context.Background(), circulation.HoldNotice{}))
	assert.NoError(t, l.HoldNeedsReassignment(context.Background(), circulation.HoldNotice{}))
	assert.NoError(t, l.Overdue(context.Background(), circulation.OverdueNotice{}))
}
