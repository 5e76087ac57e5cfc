package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/marufbinsalim/walletree/internal/app/system/identity"
	"github.com/marufbinsalim/walletree/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const testSecret = "bootstrap-test-secret-0123456789abcdef"

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		StoreBackend:     BackendMongo,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "walletree",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 5,
		AuthHMACSecret:   testSecret,
		AppTimezone:      "UTC",
		InviteTTL:        7 * 24 * time.Hour,
		MetricsEnabled:   true,
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", dev, func(*AppConfig) {}, ""},
		{"memory backend ignores mongo uri", dev, func(c *AppConfig) { c.StoreBackend = BackendMemory; c.MongoURI = "" }, ""},
		{"bad backend", dev, func(c *AppConfig) { c.StoreBackend = "redis" }, "store_backend"},
		{"empty mongo uri", dev, func(c *AppConfig) { c.MongoURI = "" }, "invalid MongoDB URI"},
		{"pool sizes", dev, func(c *AppConfig) { c.MongoMinPoolSize = 200 }, "mongo_min_pool_size"},
		{"no key", dev, func(c *AppConfig) { c.AuthHMACSecret = "" }, "auth_hmac_secret"},
		{"short secret in prod", prod, func(c *AppConfig) { c.AuthHMACSecret = "short" }, "at least 32 bytes"},
		{"short secret in dev", dev, func(c *AppConfig) { c.AuthHMACSecret = "short" }, ""},
		{"bad zone", dev, func(c *AppConfig) { c.AppTimezone = "Mars/Olympus" }, "app_timezone"},
		{"server local zone", dev, func(c *AppConfig) { c.AppTimezone = "Local" }, ""},
		{"negative timeout", dev, func(c *AppConfig) { c.TimeoutLong = -time.Second }, "timeout_long"},
		{"bad ttl", dev, func(c *AppConfig) { c.InviteTTL = 0 }, "invite_ttl"},
		{"negative rate limit", dev, func(c *AppConfig) { c.WriteRateLimit = -1 }, "write_rate_limit"},
		{"rate limit without window", dev, func(c *AppConfig) { c.WriteRateLimit = 5 }, "write_rate_window"},
		{"rate limit with window", dev, func(c *AppConfig) { c.WriteRateLimit = 5; c.WriteRateWindow = time.Minute }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example,")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("splitList = %q", got)
	}
	if splitList("") != nil {
		t.Errorf("empty input should give nil")
	}
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func token(t *testing.T, subject, email string) string {
	t.Helper()
	now := time.Now()
	claims := identity.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (c apiClient) call(method, path, bearer, body string, out any) int {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		c.t.Errorf("%s %s: missing X-Request-ID", method, path)
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func newMemoryHandler(t *testing.T) http.Handler {
	t.Helper()
	return newMemoryHandlerWith(t, nil)
}

func newMemoryHandlerWith(t *testing.T, mutate func(*AppConfig)) http.Handler {
	t.Helper()
	cfg := validAppConfig()
	cfg.StoreBackend = BackendMemory
	cfg.CORSOrigins = []string{"https://app.walletree.test"}
	if mutate != nil {
		mutate(&cfg)
	}
	core := &config.CoreConfig{Env: "dev"}

	deps, err := ConnectDB(context.Background(), core, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if err := EnsureSchema(context.Background(), core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(context.Background(), core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	t.Cleanup(func() {
		if err := Shutdown(context.Background(), core, cfg, deps, testLogger()); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})

	h, err := BuildHandler(core, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	return h
}

func TestBuildHandler_EndToEnd(t *testing.T) {
	c := apiClient{t: t, handler: newMemoryHandler(t)}
	owner := token(t, "sub-owner", "owner@example.com")
	member := token(t, "sub-member", "member@example.com")

	if code := c.call("GET", "/health", "", "", nil); code != http.StatusOK {
		t.Fatalf("health: %d", code)
	}

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if code := c.call("POST", "/api/me/sync", owner, "", &me); code != http.StatusOK || me.Email != "owner@example.com" {
		t.Fatalf("sync owner: %d %+v", code, me)
	}
	if code := c.call("POST", "/api/me/sync", member, `{"first_name":"Mia"}`, nil); code != http.StatusOK {
		t.Fatalf("sync member: %d", code)
	}

	var org struct {
		ID string `json:"id"`
	}
	if code := c.call("POST", "/api/organizations", owner, `{"name":"Acme"}`, &org); code != http.StatusCreated {
		t.Fatalf("create org: %d", code)
	}

	var inv struct {
		ID string `json:"id"`
	}
	if code := c.call("POST", "/api/organizations/"+org.ID+"/invites", owner, `{"email":"member@example.com"}`, &inv); code != http.StatusCreated {
		t.Fatalf("invite: %d", code)
	}
	if code := c.call("POST", "/api/invites/"+inv.ID+"/accept", member, "", nil); code != http.StatusOK {
		t.Fatalf("accept: %d", code)
	}

	var members []struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if code := c.call("GET", "/api/organizations/"+org.ID+"/members", member, "", &members); code != http.StatusOK || len(members) != 2 {
		t.Fatalf("members: %d %+v", code, members)
	}

	body := `{"organization_id":"` + org.ID + `","amount":"50","type":"spending","date":"` + time.Now().UTC().Format(time.RFC3339) + `"}`
	if code := c.call("POST", "/api/transactions", member, body, nil); code != http.StatusCreated {
		t.Fatalf("create transaction: %d", code)
	}

	var stats struct {
		TotalSpent       string `json:"total_spent"`
		TransactionCount int    `json:"transaction_count"`
	}
	if code := c.call("GET", "/api/transactions/stats?organization_id="+org.ID, owner, "", &stats); code != http.StatusOK {
		t.Fatalf("stats: %d", code)
	}
	if stats.TotalSpent != "50" || stats.TransactionCount != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if code := c.call("DELETE", "/api/organizations/"+org.ID, owner, "", nil); code != http.StatusNoContent {
		t.Fatalf("delete org: %d", code)
	}
}

func TestBuildHandler_RejectsBadTokens(t *testing.T) {
	c := apiClient{t: t, handler: newMemoryHandler(t)}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if code := c.call("GET", "/api/me", "not-a-jwt", "", &env); code != http.StatusUnauthorized || env.Error.Code != "UNAUTHENTICATED" {
		t.Fatalf("bad token: %d %+v", code, env)
	}

	// anonymous listings answer with empty results
	var pending []any
	if code := c.call("GET", "/api/invites/pending", "", "", &pending); code != http.StatusOK || len(pending) != 0 {
		t.Fatalf("anonymous pending: %d %v", code, pending)
	}

	if code := c.call("GET", "/api/nowhere", "", "", &env); code != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("unknown route: %d %+v", code, env)
	}
}

func TestBuildHandler_MetricsAndCORS(t *testing.T) {
	h := newMemoryHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "walletree_http_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}

	req := httptest.NewRequest("OPTIONS", "/api/organizations", nil)
	req.Header.Set("Origin", "https://app.walletree.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.walletree.test" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestBuildHandler_WriteRateLimit(t *testing.T) {
	c := apiClient{t: t, handler: newMemoryHandlerWith(t, func(cfg *AppConfig) {
		cfg.WriteRateLimit = 2
		cfg.WriteRateWindow = time.Hour
	})}
	owner := token(t, "sub-owner", "owner@example.com")

	if code := c.call("POST", "/api/me/sync", owner, "", nil); code != http.StatusOK {
		t.Fatalf("sync: %d", code)
	}
	if code := c.call("POST", "/api/organizations", owner, `{"name":"Acme"}`, nil); code != http.StatusCreated {
		t.Fatalf("create org: %d", code)
	}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if code := c.call("POST", "/api/organizations", owner, `{"name":"Beta"}`, &env); code != http.StatusTooManyRequests || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("third write: %d %+v", code, env)
	}

	var orgs []any
	if code := c.call("GET", "/api/organizations", owner, "", &orgs); code != http.StatusOK || len(orgs) != 1 {
		t.Fatalf("reads stay open: %d %v", code, orgs)
	}
}

func TestStartup_AppliesTimeouts(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	cfg := validAppConfig()
	cfg.TimeoutShort = 3 * time.Second
	cfg.TimeoutLong = time.Minute
	deps := memoryDepsForTest()
	if err := Startup(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}

	got := timeouts.Current()
	if got.Short != 3*time.Second || got.Long != time.Minute {
		t.Errorf("configured timeouts = %+v", got)
	}
	if got.Ping != timeouts.DefaultPing || got.Medium != timeouts.DefaultMedium {
		t.Errorf("unset timeouts should keep defaults, got %+v", got)
	}
}

func TestBuildHandler_NoKey(t *testing.T) {
	cfg := validAppConfig()
	cfg.AuthHMACSecret = ""
	deps := memoryDepsForTest()
	if _, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()); err == nil {
		t.Fatal("expected error without a signing key")
	}
}

func memoryDepsForTest() DBDeps {
	deps, _ := ConnectDB(context.Background(), &config.CoreConfig{}, AppConfig{StoreBackend: BackendMemory}, zap.NewNop())
	return deps
}
