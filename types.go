package goConsole

import (
	"context"

	"github.com/MrEthical07/goConsole/session"
)

// Authenticator performs the upstream credential exchange. *authapi.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*session.Record, error)
}

// AuthenticatorFunc adapts a function to [Authenticator].
type AuthenticatorFunc func(ctx context.Context, email, password string) (*session.Record, error)

func (f AuthenticatorFunc) Login(ctx context.Context, email, password string) (*session.Record, error) {
	return f(ctx, email, password)
}

// Status is a read-only summary of the console for display.
type Status struct {
	State        string
	Role         string
	UserID       string
	UserName     string
	Email        string
	InitialRoute string
	Menu         []string
}
