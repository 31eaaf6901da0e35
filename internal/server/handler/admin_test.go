package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

type fakeCompiler struct {
	results domain.AuctionResults
	err     error
}

func (f *fakeCompiler) Compile(context.Context) (domain.AuctionResults, error) {
	return f.results, f.err
}

type fakeArchiver struct {
	key string
	err error
}

func (f *fakeArchiver) Archive(context.Context) (string, error) {
	return f.key, f.err
}

func TestAdminResultsRequiresToken(t *testing.T) {
	h := NewAdminHandler("sekrit", &fakeCompiler{}, nil, discardLogger())

	for _, url := range []string{
		"/admin/results",
		"/admin/results?token=",
		"/admin/results?token=wrong",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		h.Results(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: status %d, want 403", url, rec.Code)
		}
	}
}

func TestAdminResultsEmptyConfiguredTokenAlwaysForbidden(t *testing.T) {
	h := NewAdminHandler("", &fakeCompiler{}, nil, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/results?token=", nil)
	rec := httptest.NewRecorder()
	h.Results(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status %d, want 403", rec.Code)
	}
}

func TestAdminResultsSuccess(t *testing.T) {
	compiler := &fakeCompiler{results: domain.AuctionResults{
		TotalItems:       2,
		ItemsWithBids:    1,
		ItemsWithoutBids: 1,
		Items: []domain.ItemResult{
			{ItemID: 1, Name: "Quilt", TotalBids: 1, Winner: &domain.WinningBid{Amount: 60, Contact: "alice@example.com"}},
			{ItemID: 2, Name: "Jersey"},
		},
	}}
	h := NewAdminHandler("sekrit", compiler, nil, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/results?token=sekrit", nil)
	rec := httptest.NewRecorder()
	h.Results(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var got domain.AuctionResults
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TotalItems != 2 || got.ItemsWithBids != 1 || got.ItemsWithoutBids != 1 {
		t.Errorf("counts %+v, want 2/1/1", got)
	}
	if got.Items[0].Winner == nil || got.Items[0].Winner.Contact != "alice@example.com" {
		t.Errorf("winner %+v, want alice", got.Items[0].Winner)
	}
	if got.Items[1].Winner != nil {
		t.Errorf("item without bids has winner %+v", got.Items[1].Winner)
	}
}

func TestAdminResultsCompileFailure(t *testing.T) {
	h := NewAdminHandler("sekrit", &fakeCompiler{err: errors.New("db down")}, nil, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/results?token=sekrit", nil)
	rec := httptest.NewRecorder()
	h.Results(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rec.Code)
	}
}

func TestAdminArchiveNotConfigured(t *testing.T) {
	h := NewAdminHandler("sekrit", &fakeCompiler{}, nil, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/archive?token=sekrit", nil)
	rec := httptest.NewRecorder()
	h.Archive(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d, want 503", rec.Code)
	}
}

func TestAdminArchiveSuccess(t *testing.T) {
	h := NewAdminHandler("sekrit", &fakeCompiler{}, &fakeArchiver{key: "results/20260901T180000Z-deadbeef.json"}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/archive?token=sekrit", nil)
	rec := httptest.NewRecorder()
	h.Archive(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["key"] != "results/20260901T180000Z-deadbeef.json" {
		t.Errorf("key %q", body["key"])
	}
}

func TestAdminArchiveFailure(t *testing.T) {
	h := NewAdminHandler("sekrit", &fakeCompiler{}, &fakeArchiver{err: errors.New("bucket gone")}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/archive?token=sekrit", nil)
	rec := httptest.NewRecorder()
	h.Archive(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rec.Code)
	}
}
