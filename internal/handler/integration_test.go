package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/handler"
	"github.com/msomdec/skill-swap/internal/service"
)

type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newAPIClient(t *testing.T, base string) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &apiClient{t: t, base: base, http: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes a JSON response, if any.
func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode, out
}

func (c *apiClient) expect(want int, method, path string, body any) map[string]any {
	c.t.Helper()
	got, out := c.do(method, path, body)
	if got != want {
		c.t.Fatalf("%s %s: expected %d, got %d (%v)", method, path, want, got, out)
	}
	return out
}

func (c *apiClient) signUp(email, name string) string {
	c.t.Helper()
	out := c.expect(http.StatusCreated, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "name": name, "password": testPassword, "confirmPassword": testPassword,
	})
	c.expect(http.StatusOK, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": testPassword,
	})
	return out["user"].(map[string]any)["id"].(string)
}

func newTestServer(t *testing.T, svc handler.Services) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, svc, false)
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return srv
}

func TestIntegration_SwapLifecycle(t *testing.T) {
	srv := newTestServer(t, newTestServices(t))
	ana := newAPIClient(t, srv.URL)
	ben := newAPIClient(t, srv.URL)

	// 1. Register and log in both members.
	anaID := ana.signUp("ana@example.com", "Ana")
	benID := ben.signUp("ben@example.com", "Ben")

	// 2. Fill in profiles.
	ana.expect(http.StatusOK, http.MethodPut, "/api/profile", map[string]any{
		"name": "Ana", "skillsOffered": []string{"Guitar"}, "skillsWanted": []string{"Spanish"}, "isPublic": true,
	})
	ben.expect(http.StatusOK, http.MethodPut, "/api/profile", map[string]any{
		"name": "Ben", "skillsOffered": []string{"Spanish"}, "skillsWanted": []string{"Guitar"}, "isPublic": true,
	})

	// 3. Ana finds Ben by skill.
	out := ana.expect(http.StatusOK, http.MethodGet, "/api/users?skill=Spanish", nil)
	users := out["users"].([]any)
	if len(users) != 1 || users[0].(map[string]any)["id"] != benID {
		t.Fatalf("expected to find Ben, got %v", users)
	}
	if _, ok := users[0].(map[string]any)["email"]; ok {
		t.Fatal("public listing must not expose email")
	}

	// 4. Ana proposes Guitar for Spanish.
	out = ana.expect(http.StatusCreated, http.MethodPost, "/api/swaps", map[string]string{
		"recipientId": benID, "offeredSkill": "Guitar", "requestedSkill": "Spanish", "message": "Hi",
	})
	swap := out["swap"].(map[string]any)
	swapID := swap["id"].(string)
	if swap["status"] != "pending" {
		t.Fatalf("expected pending, got %v", swap["status"])
	}

	// 5. Only the recipient may accept.
	ana.expect(http.StatusForbidden, http.MethodPost, "/api/swaps/"+swapID+"/accept", nil)

	out = ben.expect(http.StatusOK, http.MethodGet, "/api/swaps?box=received", nil)
	if n := len(out["swaps"].([]any)); n != 1 {
		t.Fatalf("expected 1 received swap, got %d", n)
	}
	out = ben.expect(http.StatusOK, http.MethodGet, "/api/notifications", nil)
	if out["unread"].(float64) != 1 {
		t.Fatalf("expected 1 unread notification, got %v", out["unread"])
	}

	// 6. Ben accepts; accepting twice is a conflict.
	out = ben.expect(http.StatusOK, http.MethodPost, "/api/swaps/"+swapID+"/accept", nil)
	if out["swap"].(map[string]any)["status"] != "accepted" {
		t.Fatalf("expected accepted, got %v", out["swap"])
	}
	ben.expect(http.StatusConflict, http.MethodPost, "/api/swaps/"+swapID+"/accept", nil)

	// 7. An accepted swap cannot be deleted.
	ana.expect(http.StatusConflict, http.MethodDelete, "/api/swaps/"+swapID, nil)

	// 8. Ana completes and rates Ben 4.
	out = ana.expect(http.StatusOK, http.MethodPost, "/api/swaps/"+swapID+"/complete", map[string]any{
		"rating": 4, "feedback": "Muy bien",
	})
	if out["swap"].(map[string]any)["status"] != "completed" {
		t.Fatalf("expected completed, got %v", out["swap"])
	}

	out = ana.expect(http.StatusOK, http.MethodGet, "/api/users/"+benID, nil)
	benDTO := out["user"].(map[string]any)
	if benDTO["rating"].(float64) != 4 || benDTO["completedSwaps"].(float64) != 1 {
		t.Fatalf("unexpected reputation for Ben: %v", benDTO)
	}

	out = ana.expect(http.StatusOK, http.MethodGet, "/api/dashboard", nil)
	summary := out["summary"].(map[string]any)
	if summary["completed"].(float64) != 1 {
		t.Fatalf("expected 1 completed in summary, got %v", summary)
	}
	if out["user"].(map[string]any)["id"] != anaID {
		t.Fatal("dashboard should describe the current user")
	}

	// 9. The badge stream patches Ana's unread count.
	resp, err := ana.http.Get(srv.URL + "/notifications/badge")
	if err != nil {
		t.Fatalf("GET /notifications/badge: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("expected event stream, got %s", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "notification-badge") {
		t.Fatalf("expected badge patch in stream, got %s", body)
	}

	// 10. Logout ends the session.
	ana.expect(http.StatusNoContent, http.MethodPost, "/api/auth/logout", nil)
	ana.expect(http.StatusUnauthorized, http.MethodGet, "/api/auth/me", nil)
}

func TestIntegration_CreateThenDelete(t *testing.T) {
	srv := newTestServer(t, newMemoryServices(t))
	ana := newAPIClient(t, srv.URL)
	ben := newAPIClient(t, srv.URL)
	ana.signUp("ana@example.com", "Ana")
	benID := ben.signUp("ben@example.com", "Ben")

	ana.expect(http.StatusOK, http.MethodPut, "/api/profile", map[string]any{
		"name": "Ana", "skillsOffered": []string{"Guitar"}, "isPublic": true,
	})
	out := ana.expect(http.StatusCreated, http.MethodPost, "/api/swaps", map[string]string{
		"recipientId": benID, "offeredSkill": "Guitar", "requestedSkill": "Spanish", "message": "Hi",
	})
	swapID := out["swap"].(map[string]any)["id"].(string)

	ben.expect(http.StatusForbidden, http.MethodDelete, "/api/swaps/"+swapID, nil)
	ana.expect(http.StatusNoContent, http.MethodDelete, "/api/swaps/"+swapID, nil)
	ana.expect(http.StatusNotFound, http.MethodGet, "/api/swaps/"+swapID, nil)
}

func TestIntegration_Validation(t *testing.T) {
	srv := newTestServer(t, newMemoryServices(t))
	ana := newAPIClient(t, srv.URL)
	anaID := ana.signUp("ana@example.com", "Ana")

	ana.expect(http.StatusConflict, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ana@example.com", "name": "Again", "password": testPassword, "confirmPassword": testPassword,
	})
	ana.expect(http.StatusUnprocessableEntity, http.MethodPost, "/api/swaps", map[string]string{
		"recipientId": anaID, "offeredSkill": "Guitar", "requestedSkill": "Spanish", "message": "Hi",
	})
	ana.expect(http.StatusUnprocessableEntity, http.MethodGet, "/api/swaps?box=outbox", nil)
	ana.expect(http.StatusBadRequest, http.MethodPost, "/api/swaps", "not an object")
	ana.expect(http.StatusNotFound, http.MethodPost, "/api/swaps/missing/accept", nil)

	anon := newAPIClient(t, srv.URL)
	anon.expect(http.StatusUnauthorized, http.MethodGet, "/api/swaps", nil)
	anon.expect(http.StatusUnauthorized, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "Wrong1234",
	})
}

func TestIntegration_Admin(t *testing.T) {
	svc := newMemoryServices(t)
	srv := newTestServer(t, svc)
	ctx := context.Background()

	boss := newAPIClient(t, srv.URL)
	bossID := boss.signUp("boss@example.com", "Boss")
	promoted, err := svc.Users.GetByID(ctx, bossID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	promoted.Role = domain.RoleAdmin
	if err := svc.Users.Update(ctx, promoted); err != nil {
		t.Fatalf("Update: %v", err)
	}

	ana := newAPIClient(t, srv.URL)
	ben := newAPIClient(t, srv.URL)
	ana.signUp("ana@example.com", "Ana")
	benID := ben.signUp("ben@example.com", "Ben")
	ana.expect(http.StatusOK, http.MethodPut, "/api/profile", map[string]any{
		"name": "Ana", "skillsOffered": []string{"Guitar"}, "isPublic": true,
	})
	out := ana.expect(http.StatusCreated, http.MethodPost, "/api/swaps", map[string]string{
		"recipientId": benID, "offeredSkill": "Guitar", "requestedSkill": "Spanish", "message": "Hi",
	})
	swapID := out["swap"].(map[string]any)["id"].(string)

	ana.expect(http.StatusForbidden, http.MethodGet, "/api/admin/stats", nil)

	out = boss.expect(http.StatusOK, http.MethodGet, "/api/admin/stats", nil)
	stats := out["stats"].(map[string]any)
	if stats["activeUsers"].(float64) != 2 || stats["pendingSwaps"].(float64) != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}

	out = boss.expect(http.StatusOK, http.MethodGet, "/api/admin/swaps?status=pending", nil)
	if n := len(out["swaps"].([]any)); n != 1 {
		t.Fatalf("expected 1 pending swap, got %d", n)
	}

	out = boss.expect(http.StatusOK, http.MethodPost, "/api/admin/swaps/"+swapID+"/cancel", nil)
	if out["swap"].(map[string]any)["status"] != "cancelled" {
		t.Fatalf("expected cancelled, got %v", out["swap"])
	}

	out = boss.expect(http.StatusOK, http.MethodPost, "/api/admin/messages", map[string]string{
		"title": "Hello", "content": "Welcome aboard", "type": "update",
	})
	if out["delivered"].(float64) != 3 {
		t.Fatalf("expected 3 deliveries, got %v", out["delivered"])
	}

	boss.expect(http.StatusOK, http.MethodPost, "/api/admin/users/"+benID+"/ban", nil)
	ben.expect(http.StatusUnauthorized, http.MethodGet, "/api/auth/me", nil)
	ben.expect(http.StatusUnauthorized, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ben@example.com", "password": testPassword,
	})
	boss.expect(http.StatusUnprocessableEntity, http.MethodPost, "/api/admin/users/"+bossID+"/ban", nil)

	out = ana.expect(http.StatusOK, http.MethodGet, "/api/users", nil)
	for _, u := range out["users"].([]any) {
		if u.(map[string]any)["id"] == benID {
			t.Fatal("banned users should be hidden from browse")
		}
	}
	ana.expect(http.StatusNotFound, http.MethodGet, "/api/users/"+benID, nil)

	boss.expect(http.StatusOK, http.MethodPost, "/api/admin/users/"+benID+"/unban", nil)
	ben.expect(http.StatusOK, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ben@example.com", "password": testPassword,
	})
}

func TestIntegration_LoginRateLimit(t *testing.T) {
	svc := newMemoryServices(t)
	limiter := service.NewLoginLimiter(0, 2)
	t.Cleanup(limiter.Close)
	svc.LoginLimiter = limiter
	srv := newTestServer(t, svc)

	c := newAPIClient(t, srv.URL)
	creds := map[string]string{"email": "nobody@example.com", "password": "Wrong1234"}
	c.expect(http.StatusUnauthorized, http.MethodPost, "/api/auth/login", creds)
	c.expect(http.StatusUnauthorized, http.MethodPost, "/api/auth/login", creds)
	c.expect(http.StatusTooManyRequests, http.MethodPost, "/api/auth/login", creds)
}
