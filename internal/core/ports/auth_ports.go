package ports

import "context"

type AuthService interface {
	// Login returns a signed access token for valid admin credentials.
	Login(ctx context.Context, username, password string) (string, error)
	// Verify returns the token subject or domain.ErrUnauthorized.
	Verify(token string) (string, error)
}
