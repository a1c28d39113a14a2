// Package auth maps client supplied credentials to usernames. The relay consumes this
// as a collaborator, it never stores credentials or issues tokens itself.
package auth

// Authenticator maps a token to the username it was issued for.
type Authenticator interface {
	Authenticate(token string) (string, error)
}
