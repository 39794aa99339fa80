package ldap

// Package ldap implements the Directory port against an LDAP server using
// github.com/go-ldap/ldap/v3.
//
// Every operation dials a fresh connection and closes it on return. That is a
// deliberate simplicity/latency tradeoff for low request volume; a pooled
// implementation can replace this one without touching the verifier or the
// role resolver, which only see the ports.Directory interface.

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	goldap "github.com/go-ldap/ldap/v3"

	"github.com/corderos/corderos-go/config"
	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	apperrors "github.com/corderos/corderos-go/internal/errors"
	"github.com/corderos/corderos-go/internal/ports"
)

// Compile-time conformance to the Directory port.
var _ ports.Directory = (*Client)(nil)

// Client talks to the directory service. It holds configuration only, never
// an open connection, so a single Client is safe for concurrent use.
type Client struct {
	cfg    config.LDAPConfig
	logger *slog.Logger
}

// NewClient creates a directory client from configuration.
func NewClient(cfg config.LDAPConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, logger: logger}
}

// FindUser searches the user base for entries whose identity attribute equals
// username. The search runs under the service-account bind.
func (c *Client) FindUser(ctx context.Context, username string) ([]domainauth.DirectoryEntry, error) {
	filter := fmt.Sprintf("(%s=%s)", c.cfg.UserAttr, goldap.EscapeFilter(username))

	results, err := c.searchAsService(ctx, c.cfg.BaseDN, filter, []string{c.cfg.UserAttr})
	if err != nil {
		return nil, err
	}

	entries := make([]domainauth.DirectoryEntry, 0, len(results))
	for _, e := range results {
		name := e.GetAttributeValue(c.cfg.UserAttr)
		if name == "" {
			name = username
		}
		entries = append(entries, domainauth.DirectoryEntry{DN: e.DN, Username: name})
	}
	return entries, nil
}

// VerifyBind attempts a bind as dn with the supplied password on a dedicated
// connection. A credential rejection is (false, nil); only transport or
// protocol failures produce an error.
func (c *Client) VerifyBind(ctx context.Context, dn, password string) (bool, error) {
	conn, done, err := c.dial(ctx)
	if err != nil {
		return false, err
	}
	defer done()

	if err := conn.Bind(dn, password); err != nil {
		if goldap.IsErrorWithCode(err, goldap.LDAPResultInvalidCredentials) {
			return false, nil
		}
		return false, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "verify bind")
	}
	return true, nil
}

// IsGroupMember reports whether memberDN appears as a member of the named
// group inside the configured groups container.
func (c *Client) IsGroupMember(ctx context.Context, groupName, memberDN string) (bool, error) {
	filter := fmt.Sprintf("(&(objectClass=groupOfNames)(cn=%s)(member=%s))",
		goldap.EscapeFilter(groupName), goldap.EscapeFilter(memberDN))

	results, err := c.searchAsService(ctx, c.cfg.GroupBaseDN, filter, []string{"cn"})
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

// searchAsService binds as the service account and runs a subtree search.
func (c *Client) searchAsService(ctx context.Context, baseDN, filter string, attrs []string) ([]*goldap.Entry, error) {
	conn, done, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "service bind")
	}

	req := goldap.NewSearchRequest(
		baseDN,
		goldap.ScopeWholeSubtree,
		goldap.NeverDerefAliases,
		0, // no client-side size limit; ambiguity is handled by the caller
		int(c.cfg.Timeout.Seconds()),
		false,
		filter,
		attrs,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "search %s", baseDN)
	}
	return res.Entries, nil
}

// dial opens a connection with dial and operation timeouts applied. The
// returned done func closes the connection and must be called exactly once.
// While the call is in flight, a watcher closes the connection early if ctx
// is canceled so a disconnected client never leaves a bind hanging.
func (c *Client) dial(ctx context.Context) (*goldap.Conn, func(), error) {
	conn, err := goldap.DialURL(c.cfg.URI, goldap.DialWithDialer(&net.Dialer{Timeout: c.cfg.Timeout}))
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "dial directory")
	}
	conn.SetTimeout(c.cfg.Timeout)

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	var stopped bool
	done := func() {
		if stopped {
			return
		}
		stopped = true
		close(stop)
		conn.Close()
	}
	return conn, done, nil
}
