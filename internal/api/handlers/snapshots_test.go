package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/api/handlers"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/testutil"
)

func TestSnapshotHandler(t *testing.T) {
	t.Run("capture then list", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))
		p := testutil.CreatePortfolio(t, db, "Snapshots")
		testutil.NewContribution(p.ID).Buy("1", "100").WithPrice("110").Build(t, db)
		params := map[string]string{"uuid": p.ID}

		// Execute
		w := httptest.NewRecorder()
		handler.CaptureSnapshot(w, testutil.NewRequestWithURLParams(http.MethodPost, "/api/portfolio/"+p.ID+"/snapshots", params))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		handler.Snapshots(w, testutil.NewRequest(http.MethodGet, "/api/portfolio/"+p.ID+"/snapshots",
			params, map[string]string{"start_date": "2024-06-01"}, ""))

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		snapshots := testutil.DecodeJSON[[]model.PortfolioSnapshot](t, w)
		if len(snapshots) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(snapshots))
		}
		if !snapshots[0].CurrentValue.Equal(decimal.NewFromInt(110)) {
			t.Errorf("Expected current value 110, got %s", snapshots[0].CurrentValue)
		}
	})

	t.Run("reversed range returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))
		p := testutil.CreatePortfolio(t, db, "Snapshots")

		w := httptest.NewRecorder()
		handler.Snapshots(w, testutil.NewRequest(http.MethodGet, "/api/portfolio/"+p.ID+"/snapshots",
			map[string]string{"uuid": p.ID}, map[string]string{"start_date": "2024-06-10", "end_date": "2024-06-01"}, ""))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown portfolio returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSnapshotHandler(testutil.NewTestSnapshotService(t, db))
		id := testutil.MakeID()

		w := httptest.NewRecorder()
		handler.CaptureSnapshot(w, testutil.NewRequestWithURLParams(http.MethodPost, "/api/portfolio/"+id+"/snapshots",
			map[string]string{"uuid": id}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
