package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/njprem/storefront/internal/config"
	"github.com/njprem/storefront/internal/credentials"
)

type fakeServer struct {
	mu        sync.Mutex
	favorites map[int64]bool
	cancelled bool
	authSeen  []string
	createdAt time.Time
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"email":"a@example.com"}}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/logout":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"session expired or revoked"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/favorites":
		items := []map[string]int64{}
		for id := range f.favorites {
			items = append(items, map[string]int64{"productId": id})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"favorites": items})
	case r.Method == http.MethodPost && r.URL.Path == "/api/favorites":
		var body struct {
			ProductID int64 `json:"productId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.favorites[body.ProductID] = true
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodDelete && r.URL.Path == "/api/favorites/5":
		delete(f.favorites, 5)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/orders/o-1":
		status := "placed"
		if f.cancelled {
			status = "cancelled"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"order": map[string]any{
			"id":             "o-1",
			"status":         status,
			"createdAt":      f.createdAt.Format(time.RFC3339Nano),
			"cancelDeadline": f.createdAt.Add(3 * time.Minute).Format(time.RFC3339Nano),
		}})
	case r.Method == http.MethodPost && r.URL.Path == "/api/orders/o-1/cancel":
		f.cancelled = true
		_, _ = w.Write([]byte(`{"order":{"id":"o-1","status":"cancelled"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
}

func newTestApp(t *testing.T) (*app, *fakeServer, *credentials.FileStore, *bytes.Buffer) {
	t.Helper()
	server := &fakeServer{favorites: map[int64]bool{5: true}, createdAt: time.Now().UTC()}
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	var out bytes.Buffer
	a := newApp(config.ClientConfig{APIBaseURL: srv.URL, RequestTimeout: 5 * time.Second}, store, &out, zerolog.Nop())
	return a, server, store, &out
}

func TestLoginStoresTokenAndLaterRequestsUseIt(t *testing.T) {
	a, server, store, out := newTestApp(t)
	ctx := context.Background()

	if err := a.dispatch(ctx, []string{"login", "a@example.com", "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if token, ok, _ := store.Get(credentials.AuthTokenKey); !ok || token != "tok-1" {
		t.Fatalf("expected token stored, got %q", token)
	}
	if err := a.dispatch(ctx, []string{"favorites"}); err != nil {
		t.Fatalf("favorites: %v", err)
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	if server.authSeen[0] != "" || server.authSeen[1] != "Bearer tok-1" {
		t.Fatalf("unexpected authorization headers %v", server.authSeen)
	}
	if !strings.Contains(out.String(), "Signed in as a@example.com") || !strings.Contains(out.String(), "5") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestToggleFlipsMembership(t *testing.T) {
	a, server, _, out := newTestApp(t)
	ctx := context.Background()

	if err := a.dispatch(ctx, []string{"toggle", "5"}); err != nil {
		t.Fatalf("toggle 5: %v", err)
	}
	if err := a.dispatch(ctx, []string{"toggle", "9"}); err != nil {
		t.Fatalf("toggle 9: %v", err)
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	if server.favorites[5] || !server.favorites[9] {
		t.Fatalf("unexpected favorites %v", server.favorites)
	}
	if !strings.Contains(out.String(), "Removed product 5") || !strings.Contains(out.String(), "Added product 9") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestFavoritesReportsEmptySet(t *testing.T) {
	a, server, _, out := newTestApp(t)
	server.mu.Lock()
	server.favorites = map[int64]bool{}
	server.mu.Unlock()

	if err := a.dispatch(context.Background(), []string{"favorites"}); err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if !strings.Contains(out.String(), "No favorites yet") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestLogoutForgetsTokenEvenWhenServerRejects(t *testing.T) {
	a, _, store, _ := newTestApp(t)
	if err := store.Set(credentials.AuthTokenKey, "stale"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err := a.dispatch(context.Background(), []string{"logout"}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := store.Get(credentials.AuthTokenKey); ok {
		t.Fatal("expected token removed")
	}
}

func TestDispatchUsage(t *testing.T) {
	a, _, _, _ := newTestApp(t)
	for _, args := range [][]string{nil, {"bogus"}, {"login", "only-email"}, {"toggle"}} {
		if err := a.dispatch(context.Background(), args); err != errUsage {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
	if err := a.dispatch(context.Background(), []string{"toggle", "abc"}); err == nil || err == errUsage {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

// readyScreen reports when the command has initialised the screen, so the
// test never reads cells while Init is still allocating them.
type readyScreen struct {
	tcell.Screen
	ready chan struct{}
}

func (s *readyScreen) Init() error {
	err := s.Screen.Init()
	close(s.ready)
	return err
}

func screenText(s tcell.SimulationScreen) string {
	cells, width, _ := s.GetContents()
	if l, ok := s.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func waitForText(t *testing.T, s tcell.SimulationScreen, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(screenText(s), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("screen never showed %q", want)
}

func TestCancelCommandDrivesCountdown(t *testing.T) {
	a, server, _, out := newTestApp(t)
	sim := tcell.NewSimulationScreen("UTF-8")
	screen := &readyScreen{Screen: sim, ready: make(chan struct{})}
	a.newScreen = func() (tcell.Screen, error) { return screen, nil }

	done := make(chan error, 1)
	go func() { done <- a.dispatch(context.Background(), []string{"cancel", "o-1"}) }()

	select {
	case <-screen.ready:
	case <-time.After(3 * time.Second):
		t.Fatal("screen was never initialised")
	}
	waitForText(t, sim, "Cancel order (")
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	waitForText(t, sim, "Order cancelled")
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("cancel command did not exit")
	}

	server.mu.Lock()
	cancelled := server.cancelled
	server.mu.Unlock()
	if !cancelled {
		t.Fatal("expected cancel request to reach the server")
	}
	if !strings.Contains(out.String(), "Order o-1 cancelled") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := a.dispatch(context.Background(), []string{"cancel", "o-1"}); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if !strings.Contains(out.String(), "is cancelled") {
		t.Fatalf("expected status message, got %q", out.String())
	}
}
