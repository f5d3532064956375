package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hearthside/choreboard/internal/database"
	"github.com/hearthside/choreboard/internal/model"
	"github.com/hearthside/choreboard/internal/snapshot"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := New(db, "test-secret", slog.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func getState(t *testing.T, ts *httptest.Server) *snapshot.State {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d", resp.StatusCode)
	}
	var state snapshot.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return &state
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	return doJSON(t, "POST", url, token, body)
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func unlock(t *testing.T, ts *httptest.Server, pin string) (string, int) {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/unlock", "", map[string]string{"pin": pin})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode unlock: %v", err)
	}
	return body.Token, resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestStateSeedsTheBoard(t *testing.T) {
	ts := setupTestServer(t)

	state := getState(t, ts)
	if len(state.Children) != 3 {
		t.Fatalf("expected 3 seeded children, got %d", len(state.Children))
	}
	for _, child := range state.Children {
		if child.RequiredTotal == 0 {
			t.Errorf("child %s has no required tasks", child.Name)
		}
		if child.Unlocked {
			t.Errorf("child %s unlocked before any approvals", child.Name)
		}
	}
}

func TestParentRoutesRequireToken(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/parent/pending")
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestUnlockRejectsWrongPIN(t *testing.T) {
	ts := setupTestServer(t)

	// Prime the settings row.
	getState(t, ts)

	if _, status := unlock(t, ts, "0000"); status != http.StatusUnauthorized {
		t.Errorf("wrong PIN status = %d, want 401", status)
	}
	if _, status := unlock(t, ts, "1234"); status != http.StatusOK {
		t.Errorf("default PIN status = %d, want 200", status)
	}
}

func TestClaimApproveUnlockFlow(t *testing.T) {
	ts := setupTestServer(t)

	state := getState(t, ts)
	child := state.Children[0]

	// The child claims every required task on their board.
	var required []model.TaskInstance
	for _, category := range child.Categories {
		for _, inst := range category.Tasks {
			if inst.Required {
				required = append(required, inst)
			}
		}
	}
	if len(required) == 0 {
		t.Fatal("seeded board should carry required tasks")
	}
	for _, inst := range required {
		url := fmt.Sprintf("%s/api/children/%d/tasks/%d/claim", ts.URL, child.ID, inst.ID)
		resp := postJSON(t, url, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("claim status = %d", resp.StatusCode)
		}
	}

	state = getState(t, ts)
	got := state.Children[0]
	if got.PendingCount != len(required) {
		t.Errorf("pending_count = %d, want %d", got.PendingCount, len(required))
	}
	if got.Unlocked {
		t.Error("claims alone should not unlock")
	}

	// The parent unlocks and approves everything pending.
	token, status := unlock(t, ts, "1234")
	if status != http.StatusOK {
		t.Fatalf("unlock status = %d", status)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/api/parent/pending", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	var pending []struct {
		ID      int64 `json:"id"`
		ChildID int64 `json:"child_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	resp.Body.Close()

	for _, p := range pending {
		if p.ChildID != child.ID {
			continue
		}
		url := fmt.Sprintf("%s/api/parent/tasks/%d/approve", ts.URL, p.ID)
		resp := postJSON(t, url, token, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("approve status = %d", resp.StatusCode)
		}
	}

	state = getState(t, ts)
	got = state.Children[0]
	if !got.Unlocked {
		t.Error("all required tasks approved, child should be unlocked")
	}
	if got.PercentComplete != 100 {
		t.Errorf("percent = %d, want 100", got.PercentComplete)
	}
	if got.PendingCount != 0 {
		t.Errorf("pending_count = %d, want 0", got.PendingCount)
	}
}

func TestClaimSomeoneElsesTaskReadsAsNotFound(t *testing.T) {
	ts := setupTestServer(t)

	state := getState(t, ts)
	owner := state.Children[0]
	other := state.Children[1]

	var taskID int64
	for _, category := range owner.Categories {
		for _, inst := range category.Tasks {
			taskID = inst.ID
		}
	}

	url := fmt.Sprintf("%s/api/children/%d/tasks/%d/claim", ts.URL, other.ID, taskID)
	resp := postJSON(t, url, "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "task_not_found" {
		t.Errorf("error = %q, want task_not_found", body.Error)
	}
}

func TestApprovedTaskCannotBeReclaimed(t *testing.T) {
	ts := setupTestServer(t)

	state := getState(t, ts)
	child := state.Children[0]

	var taskID int64
	for _, category := range child.Categories {
		for _, inst := range category.Tasks {
			taskID = inst.ID
		}
	}

	token, _ := unlock(t, ts, "1234")
	resp := postJSON(t, fmt.Sprintf("%s/api/parent/tasks/%d/approve", ts.URL, taskID), token, nil)
	resp.Body.Close()

	resp = postJSON(t, fmt.Sprintf("%s/api/children/%d/tasks/%d/claim", ts.URL, child.ID, taskID), "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "already_approved" {
		t.Errorf("error = %q, want already_approved", body.Error)
	}
}

func TestSettingsUpdateRejectsWithoutPartialWrite(t *testing.T) {
	ts := setupTestServer(t)

	getState(t, ts)
	token, _ := unlock(t, ts, "1234")

	// One valid field alongside one invalid field; nothing may change.
	resp := doJSON(t, "PUT", ts.URL+"/api/parent/settings", token, map[string]any{
		"daily_reward_text":   "Movie night!",
		"exchange_rate_cents": -5,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/api/parent/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	got, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	defer got.Body.Close()
	var settings struct {
		DailyRewardText   string `json:"daily_reward_text"`
		ExchangeRateCents int    `json:"exchange_rate_cents"`
	}
	if err := json.NewDecoder(got.Body).Decode(&settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings.DailyRewardText == "Movie night!" {
		t.Error("rejected update changed the reward text")
	}
	if settings.ExchangeRateCents != 25 {
		t.Errorf("exchange_rate_cents = %d, want default 25", settings.ExchangeRateCents)
	}
}

func TestRosterLifecycleOverHTTP(t *testing.T) {
	ts := setupTestServer(t)

	getState(t, ts)
	token, _ := unlock(t, ts, "1234")

	// Seeded roster has 3 of 5 slots filled.
	resp := postJSON(t, ts.URL+"/api/parent/children", token, map[string]any{"name": "Dana"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created model.Child
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// The new child gets today's board backfilled.
	state := getState(t, ts)
	if len(state.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(state.Children))
	}
	for _, c := range state.Children {
		if c.ID == created.ID && c.RequiredTotal == 0 {
			t.Error("backfill should give the new child required tasks")
		}
	}

	resp = postJSON(t, ts.URL+"/api/parent/children", token, map[string]any{"name": "Eli"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	// Slot six is refused.
	resp = postJSON(t, ts.URL+"/api/parent/children", token, map[string]any{"name": "Overflow"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "roster_bounds" {
		t.Errorf("error = %q, want roster_bounds", body.Error)
	}
}
