package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	"github.com/corderos/corderos-go/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.Directory = (*FakeDirectory)(nil)

// FakeDirectory is an in-memory stand-in for the LDAP directory. Users are
// registered with AddUser; error fields inject failures per operation so
// tests can exercise the unavailable paths.
type FakeDirectory struct {
	// entries maps username -> matching entries (more than one simulates an
	// ambiguous directory).
	entries map[string][]domainauth.DirectoryEntry
	// passwords maps dn -> correct password.
	passwords map[string]string
	// adminDNs holds DNs that are members of the admin group.
	adminDNs map[string]bool

	// AdminGroup is the group name IsGroupMember answers for. Defaults to
	// "administrators".
	AdminGroup string

	// Failure injection, one per operation.
	FindErr  error
	BindErr  error
	GroupErr error

	// Call counters for sequencing assertions.
	FindCalls  int
	BindCalls  int
	GroupCalls int
}

// NewFakeDirectory creates an empty fake directory.
func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		entries:    make(map[string][]domainauth.DirectoryEntry),
		passwords:  make(map[string]string),
		adminDNs:   make(map[string]bool),
		AdminGroup: "administrators",
	}
}

// AddUser registers a user with its DN and password. Calling it twice with
// the same username but different DNs produces an ambiguous match.
func (d *FakeDirectory) AddUser(username, dn, password string, admin bool) {
	d.entries[username] = append(d.entries[username], domainauth.DirectoryEntry{DN: dn, Username: username})
	d.passwords[dn] = password
	if admin {
		d.adminDNs[dn] = true
	}
}

func (d *FakeDirectory) FindUser(_ context.Context, username string) ([]domainauth.DirectoryEntry, error) {
	d.FindCalls++
	if d.FindErr != nil {
		return nil, d.FindErr
	}
	found := d.entries[username]
	out := make([]domainauth.DirectoryEntry, len(found))
	copy(out, found)
	return out, nil
}

func (d *FakeDirectory) VerifyBind(_ context.Context, dn, password string) (bool, error) {
	d.BindCalls++
	if d.BindErr != nil {
		return false, d.BindErr
	}
	want, ok := d.passwords[dn]
	return ok && password != "" && password == want, nil
}

func (d *FakeDirectory) IsGroupMember(_ context.Context, groupName, memberDN string) (bool, error) {
	d.GroupCalls++
	if d.GroupErr != nil {
		return false, d.GroupErr
	}
	if groupName != d.AdminGroup {
		return false, nil
	}
	return d.adminDNs[memberDN], nil
}
