package native

import (
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/jmgilman/gitview/errors"
)

// Auth is a credential for remote operations. It is satisfied by go-git's
// transport.AuthMethod.
type Auth interface{}

var _ Auth = (transport.AuthMethod)(nil)

// BasicAuth creates HTTP basic credentials, typically a user name and a
// personal access token.
//
// Example:
//
//	b, err := native.Open("/srv/content", native.WithAuth(native.BasicAuth("bot", token)))
func BasicAuth(username, password string) Auth {
	return &http.BasicAuth{
		Username: username,
		Password: password,
	}
}

// SSHKeyFile creates SSH credentials from a PEM encoded private key file.
// password may be empty for unencrypted keys.
func SSHKeyFile(user, keyPath, password string) (Auth, error) {
	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read SSH key file"),
			"path", keyPath,
		)
	}

	keys, err := ssh.NewPublicKeys(user, pemBytes, password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse SSH key")
	}
	return keys, nil
}
