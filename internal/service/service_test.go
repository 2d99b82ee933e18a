package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/gopayurself/internal/auth"
	"github.com/mmynk/gopayurself/internal/ledger"
	"github.com/mmynk/gopayurself/internal/metrics"
	"github.com/mmynk/gopayurself/internal/middleware"
	"github.com/mmynk/gopayurself/internal/storage/sqlite"
	"github.com/mmynk/gopayurself/pkg/api"
	"github.com/mmynk/gopayurself/pkg/api/apiconnect"
)

type testEnv struct {
	auth     *apiconnect.AuthServiceClient
	groups   *apiconnect.GroupServiceClient
	expenses *apiconnect.ExpenseServiceClient
}

// setupTestServer wires all three services the way the server binary does.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	l := ledger.New(store, nil, ledger.WithMetrics(m))

	common := []connect.Interceptor{
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(),
	}
	public := connect.WithInterceptors(append(common, middleware.OptionalAuth(jwtManager))...)
	private := connect.WithInterceptors(append(common, middleware.RequireAuth(jwtManager))...)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, nil), public))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, l), private))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(l), private))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

type session struct {
	userID string
	token  string
}

func (e *testEnv) register(t *testing.T, name string) session {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", name, err)
	}
	return session{userID: resp.Msg.User.ID, token: resp.Msg.Token}
}

// as builds a request authenticated as s.
func as[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code: expected %v, got %v (%v)", want, got, err)
	}
}
