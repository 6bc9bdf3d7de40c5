package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"solar-rewards/internal/model"
	"solar-rewards/internal/repository"
	"solar-rewards/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	lg := logger.Init("server-test", false, false, io.Discard)
	defer lg.Close()
	os.Exit(m.Run())
}

func newTestServer() (*gin.Engine, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	promotionSvc := service.NewPromotionService(store.Promotions(), store.Participations(), store)
	participationSvc := service.NewParticipationService(store.Promotions(), store.Participations(), store.Installers(), store.Serials())
	return setupRouter(promotionSvc, participationSvc), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func promotionPayload() map[string]any {
	start := time.Now().UTC().Add(-24 * time.Hour)
	end := start.Add(60 * 24 * time.Hour)
	return map[string]any{
		"title":       "Spring Installation Drive",
		"description": "Install five inverters during the campaign",
		"type":        "installation_target",
		"start_date":  start.Format(time.RFC3339),
		"end_date":    end.Format(time.RFC3339),
		"target":      map[string]any{"value": 5, "period": "lifetime"},
		"rewards":     map[string]any{"type": "cash", "amount": 25000, "description": "Cash bonus"},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestCreatePromotionEndpoint(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		router, _ := newTestServer()

		w := doJSON(t, router, http.MethodPost, "/api/promotions", promotionPayload())
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var promotion model.Promotion
		if err := json.Unmarshal(w.Body.Bytes(), &promotion); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if promotion.ID.IsZero() {
			t.Error("Expected an id in the response")
		}
	})

	t.Run("invalid payload lists fields", func(t *testing.T) {
		router, _ := newTestServer()

		w := doJSON(t, router, http.MethodPost, "/api/promotions", map[string]any{"type": "installation_target"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}

		var resp struct {
			Fields []string `json:"fields"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp.Fields) == 0 {
			t.Error("Expected violated fields in the response")
		}
	})
}

func TestJoinEndpoint(t *testing.T) {
	router, store := newTestServer()

	w := doJSON(t, router, http.MethodPost, "/api/promotions", promotionPayload())
	if w.Code != http.StatusCreated {
		t.Fatalf("Promotion create failed: %d", w.Code)
	}
	var promotion model.Promotion
	if err := json.Unmarshal(w.Body.Bytes(), &promotion); err != nil {
		t.Fatalf("Failed to decode promotion: %v", err)
	}

	store.PutInstaller(model.Installer{
		ID:       "inst-1",
		Status:   "active",
		JoinedAt: time.Now().UTC().Add(-5 * 24 * time.Hour),
	})

	joinPath := "/api/promotions/" + promotion.ID.Hex() + "/join"

	t.Run("first join succeeds", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, joinPath, map[string]any{"installer_id": "inst-1"})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("second join conflicts", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, joinPath, map[string]any{"installer_id": "inst-1"})
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", w.Code)
		}
	})

	t.Run("unknown installer is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, joinPath, map[string]any{"installer_id": "ghost"})
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("unknown promotion is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/promotions/65f000000000000000000000/join", map[string]any{"installer_id": "inst-1"})
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("malformed promotion id is 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/promotions/not-an-id/join", map[string]any{"installer_id": "inst-1"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestIneligibleJoinEndpoint(t *testing.T) {
	router, store := newTestServer()

	payload := promotionPayload()
	payload["eligibility"] = map[string]any{"installer_status": "gold"}
	w := doJSON(t, router, http.MethodPost, "/api/promotions", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("Promotion create failed: %d", w.Code)
	}
	var promotion model.Promotion
	if err := json.Unmarshal(w.Body.Bytes(), &promotion); err != nil {
		t.Fatalf("Failed to decode promotion: %v", err)
	}

	store.PutInstaller(model.Installer{ID: "inst-1", Status: "active", JoinedAt: time.Now().UTC()})

	w = doJSON(t, router, http.MethodPost, "/api/promotions/"+promotion.ID.Hex()+"/join", map[string]any{"installer_id": "inst-1"})
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRewardLifecycleOverHTTP(t *testing.T) {
	router, store := newTestServer()

	payload := promotionPayload()
	payload["target"] = map[string]any{"value": 1, "period": "lifetime"}
	w := doJSON(t, router, http.MethodPost, "/api/promotions", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("Promotion create failed: %d", w.Code)
	}
	var promotion model.Promotion
	if err := json.Unmarshal(w.Body.Bytes(), &promotion); err != nil {
		t.Fatalf("Failed to decode promotion: %v", err)
	}

	store.PutInstaller(model.Installer{ID: "inst-1", Status: "active", JoinedAt: time.Now().UTC()})

	w = doJSON(t, router, http.MethodPost, "/api/promotions/"+promotion.ID.Hex()+"/join", map[string]any{"installer_id": "inst-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Join failed: %d", w.Code)
	}

	store.PutSerial(model.SerialRegistration{
		InstallerID: "inst-1",
		CreatedAt:   time.Now().UTC(),
		Location:    model.Location{City: "Lahore"},
	})

	w = doJSON(t, router, http.MethodPost, "/api/promotions/"+promotion.ID.Hex()+"/refresh", map[string]any{"installer_id": "inst-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("Refresh failed: %d: %s", w.Code, w.Body.String())
	}
	var participation model.Participation
	if err := json.Unmarshal(w.Body.Bytes(), &participation); err != nil {
		t.Fatalf("Failed to decode participation: %v", err)
	}
	if participation.Status != model.ParticipationStatusCompleted {
		t.Fatalf("Expected completed after refresh, got %s", participation.Status)
	}
	if !participation.RewardClaimable {
		t.Fatal("Expected reward claimable after completion")
	}

	w = doJSON(t, router, http.MethodPatch, "/api/participations/"+participation.ID.Hex()+"/reward", map[string]any{
		"status":   "paid",
		"admin_id": "admin-1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Reward patch failed: %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &participation); err != nil {
		t.Fatalf("Failed to decode participation: %v", err)
	}
	if !participation.RewardClaimed || participation.RewardStatus != model.RewardStatusPaid {
		t.Errorf("Expected paid and claimed, got %s claimed=%v", participation.RewardStatus, participation.RewardClaimed)
	}
	if participation.RewardClaimedAt == nil {
		t.Error("Expected a claim timestamp")
	}
}

func TestListForInstallerEndpoint(t *testing.T) {
	router, store := newTestServer()

	w := doJSON(t, router, http.MethodPost, "/api/promotions", promotionPayload())
	if w.Code != http.StatusCreated {
		t.Fatalf("Promotion create failed: %d", w.Code)
	}

	store.PutInstaller(model.Installer{ID: "inst-1", Status: "active", JoinedAt: time.Now().UTC()})

	w = doJSON(t, router, http.MethodGet, "/api/installers/inst-1/promotions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var offers []model.PromotionOffer
	if err := json.Unmarshal(w.Body.Bytes(), &offers); err != nil {
		t.Fatalf("Failed to decode offers: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("Expected 1 offer, got %d", len(offers))
	}
	if offers[0].IsParticipating || !offers[0].CanJoin {
		t.Errorf("Expected joinable offer, got %+v", offers[0])
	}
}
