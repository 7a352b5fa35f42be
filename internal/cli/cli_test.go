package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", "does-not-exist.env"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "hotel dev") {
		t.Fatalf("version output = %q", out)
	}
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	_, err := run(t, "user", "create", "--username", "x", "--password", "y", "--ruolo", "boss")
	if err == nil || !strings.Contains(err.Error(), "invalid --ruolo") {
		t.Fatalf("err = %v", err)
	}
}

func TestMigrateNeedsMySQL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s")
	_, err := run(t, "migrate")
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER=mysql") {
		t.Fatalf("err = %v", err)
	}
}

func TestAllowOrigins(t *testing.T) {
	check := allowOrigins([]string{"http://localhost:5173"})
	tests := []struct {
		origin, host string
		want         bool
	}{
		{"", "api.local", true},
		{"http://localhost:5173", "api.local", true},
		{"http://evil.example", "api.local", false},
		{"http://api.local", "api.local", true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/chat/ws", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := check(r); got != tt.want {
			t.Fatalf("origin %q host %q: got %v", tt.origin, tt.host, got)
		}
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Origin", "http://anywhere.example")
	if !allowOrigins([]string{"*"})(r) {
		t.Fatal("wildcard must allow")
	}
}

func TestOpenMemoryStores(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	st, err := openStores(ctx, config.Config{StoreDriver: config.DriverMemory}, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	rooms, err := st.rooms.List(ctx)
	if err != nil || len(rooms) != len(demoRooms) {
		t.Fatalf("rooms = %v, %v", rooms, err)
	}
}
