package webchat

import "github.com/pkg/errors"

var (
	// ErrUnboundSender is returned when a client sends before claiming a username. The
	// message is dropped and logged, nothing is reported back to the client.
	ErrUnboundSender = errors.New("sender has no bound username")

	// ErrRecipientNotFound is returned when a direct message names a username with no
	// live connection.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrDuplicateSession is returned by Register under the reject-duplicate policy when
	// the username is already bound to another live connection.
	ErrDuplicateSession = errors.New("username already bound to another connection")
)
