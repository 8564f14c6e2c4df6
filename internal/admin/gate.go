package admin

import (
	"crypto/subtle"
	"errors"
)

// GateState is the admin access state of a session.
type GateState int

const (
	LoggedOut GateState = iota
	LoggedIn
)

func (s GateState) String() string {
	if s == LoggedIn {
		return "LoggedIn"
	}
	return "LoggedOut"
}

// ErrInvalidCredentials is returned for a wrong password. Login may be
// retried any number of times.
var ErrInvalidCredentials = errors.New("invalid credentials")

// InvalidCredentialsMessage is the text shown to the operator after a
// failed attempt.
const InvalidCredentialsMessage = "Incorrect password. Please try again."

// Gate is the one-way LoggedOut -> LoggedIn state machine. It is a
// convenience gate, not a security boundary. Gate is not safe for
// concurrent use; Session serializes access to it.
type Gate struct {
	password string
	state    GateState
}

// NewGate returns a LoggedOut gate that opens for password.
func NewGate(password string) *Gate {
	return &Gate{password: password}
}

// State returns the current state.
func (g *Gate) State() GateState { return g.state }

// Login compares attempt with the configured password. A logged-in gate
// stays logged in whatever the attempt.
func (g *Gate) Login(attempt string) error {
	if g.state == LoggedIn {
		return nil
	}
	if g.password == "" || subtle.ConstantTimeCompare([]byte(attempt), []byte(g.password)) != 1 {
		return ErrInvalidCredentials
	}
	g.state = LoggedIn
	return nil
}
