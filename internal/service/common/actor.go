//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc/metadata"

	transport "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
)

// Actor identifies the machine and user issuing requests.
type Actor struct {
	// Hostname is the network name of the machine.
	Hostname string
	// Username is the login name of the user.
	Username string
}

// DetectActor gathers host and user information for the daemon's request log.
func DetectActor() (*Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// outgoing attaches the actor to the outgoing gRPC metadata.
func (a *Actor) outgoing(ctx context.Context) context.Context {
	if a == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx,
		transport.MetadataHostname, a.Hostname,
		transport.MetadataUsername, a.Username)
}
