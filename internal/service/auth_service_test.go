package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/gopayurself/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	if alice.token == "" {
		t.Fatal("expected token on register")
	}

	_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "password123",
	}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "bob@example.com", DisplayName: "Bob", Password: "short",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email: "alice@example.com", Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.ID != alice.userID {
		t.Errorf("user: expected %s, got %s", alice.userID, login.Msg.User.ID)
	}

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice")

	resp, err := env.auth.GetCurrentUser(context.Background(), as(alice, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.DisplayName != "alice" {
		t.Errorf("display name: expected 'alice', got '%s'", resp.Msg.User.DisplayName)
	}

	_, err = env.auth.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
