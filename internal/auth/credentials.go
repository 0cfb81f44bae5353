package auth

import (
	"sync"

	"NYCU-SDC/survey-builder/internal"

	"golang.org/x/oauth2"
)

// Credentials holds the bearer token used toward the storage service. It is
// safe for concurrent use and is cleared when the storage service answers 401.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Credentials) Clear() {
	c.Set("")
}

func (c *Credentials) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// Token implements oauth2.TokenSource.
func (c *Credentials) Token() (*oauth2.Token, error) {
	token, ok := c.Get()
	if !ok {
		return nil, internal.ErrNoCredentials
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
