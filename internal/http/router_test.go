package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronghieu/ezlib-sub005/internal/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/circulation/memstore"
	apihttp "github.com/tronghieu/ezlib-sub005/internal/http"
	circulationHandler "github.com/tronghieu/ezlib-sub005/internal/http/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/http/copies"
	"github.com/tronghieu/ezlib-sub005/internal/http/importcsv"
	"github.com/tronghieu/ezlib-sub005/internal/http/members"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
	"github.com/tronghieu/ezlib-sub005/internal/importer"
)

const secret = "0123456789abcdef0123456789abcdef"

type api struct {
	handler   http.Handler
	store     *memstore.Store
	ledger    *circulation.Ledger
	authority *identity.JWTAuthority
	libraryID uuid.UUID
	staffID   uuid.UUID
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := memstore.New()
	authority, err := identity.NewJWTAuthority(secret, "ezlib-test")
	require.NoError(t, err)

	var (
		ledger  = circulation.NewLedger(store)
		log     = circulation.NewLog(store)
		safety  = circulation.NewSafetyChecker(store)
		service = circulation.NewService(store, ledger)
	)

	handler := apihttp.New(
		apihttp.Options{Authority: authority},
		circulationHandler.NewHandler(service, log),
		copies.NewHandler(ledger, log, safety),
		members.NewHandler(circulation.NewMembers(store), safety),
		importcsv.NewHandler(importer.NewService(ledger)),
	)

	a := &api{
		handler:   handler,
		store:     store,
		ledger:    ledger,
		authority: authority,
		libraryID: uuid.New(),
		staffID:   uuid.New(),
	}
	a.seedLibrary(t, a.libraryID)

	return a
}

func (a *api) seedLibrary(t *testing.T, id uuid.UUID) {
	t.Helper()

	require.NoError(t, a.store.UpsertLibrary(context.Background(), &circulation.Library{
		ID:        id,
		Name:      "Branch " + id.String()[:8],
		Status:    circulation.LibraryStatusActive,
		Settings:  circulation.DefaultSettings(),
		CreatedAt: time.Now(),
	}))
}

func (a *api) token(t *testing.T, role identity.Role) string {
	t.Helper()

	tok, err := a.authority.Issue(a.staffID.String(), []identity.Membership{{LibraryID: a.libraryID, Role: role}}, time.Hour)
	require.NoError(t, err)

	return tok
}

func (a *api) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "/api/v1/libraries/"+a.libraryID.String()+path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type copyBody struct {
	ID              uuid.UUID `json:"id"`
	CopyNumber      int       `json:"copy_number"`
	Status          string    `json:"status"`
	AvailableCopies int       `json:"available_copies"`
}

type resultBody struct {
	Transaction struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
		Fees   struct {
			Damage     string `json:"damage"`
			Processing string `json:"processing"`
			Total      string `json:"total"`
		} `json:"fees"`
	} `json:"transaction"`
	Copy copyBody `json:"copy"`
}

func (a *api) registerCopy(t *testing.T, token string) uuid.UUID {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/copies", token, map[string]any{"edition_id": uuid.New(), "count": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[[]copyBody](t, rec)
	require.Len(t, created, 1)

	return created[0].ID
}

func (a *api) registerMember(t *testing.T, token string) uuid.UUID {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/members", token, map[string]any{"display_name": "Ada " + uuid.NewString()[:4]})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[struct {
		ID uuid.UUID `json:"id"`
	}](t, rec).ID
}

func TestRouter_Healthz(t *testing.T) {
	a := newAPI(t)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Auth(t *testing.T) {
	a := newAPI(t)

	other, err := a.authority.Issue(a.staffID.String(), []identity.Membership{{LibraryID: uuid.New(), Role: identity.RoleOwner}}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		method     string
		path       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "MissingToken",
			method:     http.MethodGet,
			path:       "/members/" + uuid.NewString(),
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthenticated",
		},
		{
			name:       "GarbageToken",
			token:      "not-a-jwt",
			method:     http.MethodGet,
			path:       "/members/" + uuid.NewString(),
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthenticated",
		},
		{
			name:       "NoMembershipInLibrary",
			token:      other,
			method:     http.MethodGet,
			path:       "/copies/" + uuid.NewString(),
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "MemberCannotCheckout",
			token:      a.token(t, identity.RoleMember),
			method:     http.MethodPost,
			path:       "/circulation/checkout",
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "LibrarianCannotDelete",
			token:      a.token(t, identity.RoleLibrarian),
			method:     http.MethodDelete,
			path:       "/copies/" + uuid.NewString(),
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, tt.token, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decode[errorBody](t, rec).Error)
		})
	}
}

func TestRouter_CirculationFlow(t *testing.T) {
	a := newAPI(t)
	token := a.token(t, identity.RoleManager)

	copyID := a.registerCopy(t, token)
	first := a.registerMember(t, token)
	second := a.registerMember(t, token)

	rec := a.do(t, http.MethodPost, "/circulation/checkout", token, map[string]any{"copy_id": copyID, "member_id": first})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	checkout := decode[resultBody](t, rec)
	assert.Equal(t, "active", checkout.Transaction.Status)
	assert.Equal(t, 0, checkout.Copy.AvailableCopies)

	rec = a.do(t, http.MethodPost, "/circulation/checkout", token, map[string]any{"copy_id": copyID, "member_id": second})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decode[errorBody](t, rec).Error)

	rec = a.do(t, http.MethodDelete, "/copies/"+copyID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodGet, "/copies/"+copyID.String()+"/deletion-safety", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	check := decode[circulation.DeletionCheck](t, rec)
	assert.False(t, check.CanDelete)
	assert.Equal(t, 1, check.ActiveBorrowCount)

	rec = a.do(t, http.MethodPost, "/circulation/return", token, map[string]any{"transaction_id": checkout.Transaction.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	returned := decode[resultBody](t, rec)
	assert.Equal(t, "returned", returned.Transaction.Status)
	assert.Equal(t, 1, returned.Copy.AvailableCopies)

	rec = a.do(t, http.MethodGet, "/transactions/"+checkout.Transaction.ID.String()+"/events", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	events := decode[[]struct {
		Type string `json:"type"`
	}](t, rec)
	require.Len(t, events, 3)
	assert.Equal(t, "created", events[0].Type)
	assert.Equal(t, "returned", events[2].Type)

	rec = a.do(t, http.MethodGet, "/copies/"+copyID.String()+"/history?limit=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(t, http.MethodDelete, "/copies/"+copyID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/copies/"+copyID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_DeclareLostWithFeeOverride(t *testing.T) {
	a := newAPI(t)
	token := a.token(t, identity.RoleLibrarian)

	copyID := a.registerCopy(t, token)
	memberID := a.registerMember(t, token)

	rec := a.do(t, http.MethodPost, "/circulation/checkout", token, map[string]any{"copy_id": copyID, "member_id": memberID, "loan_days": 7})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	txID := decode[resultBody](t, rec).Transaction.ID

	rec = a.do(t, http.MethodPost, "/circulation/lost", token, map[string]any{"transaction_id": txID, "fee_override": "12.5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	lost := decode[resultBody](t, rec)
	assert.Equal(t, "lost", lost.Transaction.Status)
	assert.Equal(t, "12.50", lost.Transaction.Fees.Damage)
	assert.Equal(t, "5.00", lost.Transaction.Fees.Processing)
	assert.Equal(t, "17.50", lost.Transaction.Fees.Total)
	assert.Equal(t, "lost", lost.Copy.Status)

	rec = a.do(t, http.MethodPost, "/circulation/renew", token, map[string]any{"transaction_id": txID})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_ValidationErrors(t *testing.T) {
	a := newAPI(t)
	token := a.token(t, identity.RoleOwner)

	tests := []struct {
		name        string
		path        string
		body        any
		wantMessage string
	}{
		{
			name:        "CheckoutMissingCopy",
			path:        "/circulation/checkout",
			body:        map[string]any{"member_id": uuid.New()},
			wantMessage: "copy_id failed required",
		},
		{
			name:        "NegativeLoanDays",
			path:        "/circulation/checkout",
			body:        map[string]any{"copy_id": uuid.New(), "member_id": uuid.New(), "loan_days": -1},
			wantMessage: "loan_days failed gte",
		},
		{
			name:        "BadFeeOverride",
			path:        "/circulation/lost",
			body:        map[string]any{"transaction_id": uuid.New(), "fee_override": "twelve"},
			wantMessage: "invalid amount",
		},
		{
			name:        "RegisterZeroCopies",
			path:        "/copies",
			body:        map[string]any{"edition_id": uuid.New(), "count": 0},
			wantMessage: "count failed required",
		},
		{
			name:        "MalformedJSON",
			path:        "/members",
			body:        "{",
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, tt.path, token, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode[errorBody](t, rec)
			assert.Equal(t, "validation", body.Error)
			assert.Contains(t, body.Message, tt.wantMessage)
		})
	}
}

func TestRouter_CrossTenantCopy(t *testing.T) {
	a := newAPI(t)
	token := a.token(t, identity.RoleOwner)

	otherLibrary := uuid.New()
	a.seedLibrary(t, otherLibrary)

	foreign, err := a.ledger.RegisterCopies(context.Background(), otherLibrary, uuid.New(), 1, circulation.Placement{})
	require.NoError(t, err)

	rec := a.do(t, http.MethodGet, "/copies/"+foreign[0].ID.String(), token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "cross_tenant", decode[errorBody](t, rec).Error)
}

func TestRouter_ImportCSV(t *testing.T) {
	a := newAPI(t)
	token := a.token(t, identity.RoleManager)
	editionID := uuid.New()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "inventory.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("edition_id;copies;location\n" + editionID.String() + ";3;Stacks\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/libraries/"+a.libraryID.String()+"/copies/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[struct {
		Profile  string `json:"profile"`
		Imported int    `json:"imported"`
	}](t, rec)
	assert.Equal(t, "batch", res.Profile)
	assert.Equal(t, 3, res.Imported)

	rec = a.do(t, http.MethodGet, "/editions/"+editionID.String()+"/availability", a.token(t, identity.RoleMember), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"edition_id":"`+editionID.String()+`","total":3,"available":3}`, rec.Body.String())
}
