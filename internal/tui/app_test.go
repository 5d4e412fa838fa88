package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/session"
)

func newTestApp(t *testing.T, authenticated bool) *App {
	t.Helper()
	sess, err := session.Open(filepath.Join(t.TempDir(), "tokens.json"))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if authenticated {
		if err := sess.Set("access", "refresh"); err != nil {
			t.Fatalf("set tokens: %v", err)
		}
	}
	deps := Deps{
		API:         api.New("http://localhost:0", time.Second, sess, zerolog.Nop()),
		Log:         zerolog.Nop(),
		PreviewRows: 10,
		TestSize:    0.2,
		RandomState: 42,
	}
	return NewApp(deps, sess)
}

func TestGuardRedirectsProtectedRoutesToLogin(t *testing.T) {
	for _, target := range []route{routePlayground, routeModels, routeDashboard, routeLearn, routeProfile} {
		a := newTestApp(t, false)

		a.enter(target)

		if a.route != routeLogin {
			t.Fatalf("enter(%s): route = %v, want %v", target.title(), a.route, routeLogin)
		}
		if a.pending != target {
			t.Fatalf("enter(%s): pending = %v, want %v", target.title(), a.pending, target)
		}
		if !a.statusErr || a.status == "" {
			t.Fatalf("enter(%s): expected an error status, got %q (err=%v)", target.title(), a.status, a.statusErr)
		}
	}
}

func TestGuardRestoresPendingRouteAfterLogin(t *testing.T) {
	a := newTestApp(t, false)
	a.enter(routeModels)

	if err := a.session.Set("access", "refresh"); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	a.updateResult(loginDoneMsg{})

	if a.route != routeModels {
		t.Fatalf("route = %v, want %v", a.route, routeModels)
	}
	if a.pending != routeHome {
		t.Fatalf("pending = %v, want %v", a.pending, routeHome)
	}
}

func TestGuardAllowsProtectedRouteWhenAuthenticated(t *testing.T) {
	a := newTestApp(t, true)

	a.enter(routeModels)

	if a.route != routeModels {
		t.Fatalf("route = %v, want %v", a.route, routeModels)
	}
}

func TestSessionExpiryRedirectsToLogin(t *testing.T) {
	a := newTestApp(t, true)
	a.route = routeModels

	a.updateResult(modelsMsg{err: fmt.Errorf("list models: %w", api.ErrSessionExpired)})

	if a.route != routeLogin {
		t.Fatalf("route = %v, want %v", a.route, routeLogin)
	}
	if a.pending != routeModels {
		t.Fatalf("pending = %v, want %v", a.pending, routeModels)
	}
	if !a.statusErr {
		t.Fatalf("expected error status, got %q", a.status)
	}
}

func TestOrdinaryErrorStaysOnScreen(t *testing.T) {
	a := newTestApp(t, true)
	a.route = routeModels

	a.updateResult(modelsMsg{err: errors.New("backend unavailable")})

	if a.route != routeModels {
		t.Fatalf("route = %v, want %v", a.route, routeModels)
	}
}

func TestCycleSkipsNothingAndWraps(t *testing.T) {
	a := newTestApp(t, true)
	a.route = mainRoutes[len(mainRoutes)-1]

	a.cycle(1)
	if a.route != mainRoutes[0] {
		t.Fatalf("route = %v, want wrap to %v", a.route, mainRoutes[0])
	}

	a.cycle(-1)
	if a.route != mainRoutes[len(mainRoutes)-1] {
		t.Fatalf("route = %v, want wrap to %v", a.route, mainRoutes[len(mainRoutes)-1])
	}
}

func TestRouteTitlesAndProtection(t *testing.T) {
	cases := []struct {
		route     route
		title     string
		protected bool
	}{
		{routeHome, "Home", false},
		{routePlayground, "Playground", true},
		{routeModels, "Models", true},
		{routeDashboard, "Dashboard", true},
		{routeLearn, "Learn", true},
		{routeProfile, "Profile", true},
		{routeLogin, "Sign In", false},
	}
	for _, tc := range cases {
		if got := tc.route.title(); got != tc.title {
			t.Errorf("title(%v) = %q, want %q", tc.route, got, tc.title)
		}
		if got := tc.route.protected(); got != tc.protected {
			t.Errorf("protected(%v) = %v, want %v", tc.route, got, tc.protected)
		}
	}
}
