// Package auth is the authorization directory consulted by front ends before
// they call into the data layer. The routing layer itself never looks at it.
package auth

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// ErrUnknownAccount username not in the directory
	ErrUnknownAccount = errors.ConstError("unknown account")
	// ErrBadCredentials wrong password or empty credentials
	ErrBadCredentials = errors.ConstError("bad credentials")
	// ErrForbidden the role does not allow the action
	ErrForbidden = errors.ConstError("forbidden")
)

// Role of an account
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManagerFIS  Role = "gestor_fis"
	RoleManagerFIQA Role = "gestor_fiqa"
	RoleUser        Role = "usuario"
)

// Account directory entry. PasswordHash is a bcrypt hash.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
	FullName     string `json:"full_name"`
	// Node home node of the account
	Node string `json:"node"`
}

// Permissions what a role may do. Nodes are upper-case names.
type Permissions struct {
	View        map[string]bool
	Edit        map[string]bool
	ManageUsers bool
	ViewReports bool
}

// PermissionsOf role; an unknown role gets no permission
func PermissionsOf(role Role) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			View:        map[string]bool{"FIS": true, "FIQA": true},
			Edit:        map[string]bool{"FIS": true, "FIQA": true},
			ManageUsers: true,
			ViewReports: true,
		}
	case RoleManagerFIS:
		return Permissions{
			View:        map[string]bool{"FIS": true},
			Edit:        map[string]bool{"FIS": true},
			ViewReports: true,
		}
	case RoleManagerFIQA:
		return Permissions{
			View:        map[string]bool{"FIQA": true},
			Edit:        map[string]bool{"FIQA": true},
			ViewReports: true,
		}
	case RoleUser:
		return Permissions{
			View: map[string]bool{"FIS": true, "FIQA": true},
			Edit: map[string]bool{},
		}
	}
	return Permissions{View: map[string]bool{}, Edit: map[string]bool{}}
}

// Session an authenticated account
type Session struct {
	Username    string
	FullName    string
	Role        Role
	Node        string
	Permissions Permissions
}

func (s Session) CanRead(node string) bool {
	return s.Permissions.View[normalize(node)]
}

func (s Session) CanWrite(node string) bool {
	return s.Permissions.Edit[normalize(node)]
}

func (s Session) CanManageUsers() bool {
	return s.Permissions.ManageUsers
}

func (s Session) CanViewReports() bool {
	return s.Permissions.ViewReports
}

// RequireWrite fails with ErrForbidden unless the session may write on node
func (s Session) RequireWrite(node string) error {
	if !s.CanWrite(node) {
		return errors.WithType(errors.Errorf("%s (%s) may not write on node %s", s.Username, s.Role, normalize(node)), ErrForbidden)
	}
	return nil
}

// RequireRead fails with ErrForbidden unless the session may read on node
func (s Session) RequireRead(node string) error {
	if !s.CanRead(node) {
		return errors.WithType(errors.Errorf("%s (%s) may not read on node %s", s.Username, s.Role, normalize(node)), ErrForbidden)
	}
	return nil
}

// RequireManageUsers fails with ErrForbidden unless the session may manage users
func (s Session) RequireManageUsers() error {
	if !s.CanManageUsers() {
		return errors.WithType(errors.Errorf("%s (%s) may not manage users", s.Username, s.Role), ErrForbidden)
	}
	return nil
}

// Directory authenticates accounts
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (Session, error)
}

// StaticDirectory fixed set of accounts, injected at startup
type StaticDirectory struct {
	accounts map[string]Account
}

// NewStaticDirectory usernames are case-insensitive
func NewStaticDirectory(accounts ...Account) *StaticDirectory {
	d := &StaticDirectory{accounts: make(map[string]Account, len(accounts))}
	for _, a := range accounts {
		d.accounts[strings.ToLower(strings.TrimSpace(a.Username))] = a
	}
	return d
}

func (d *StaticDirectory) Authenticate(_ context.Context, username, password string) (Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return Session{}, errors.WithType(errors.New("username and password are required"), ErrBadCredentials)
	}
	a, ok := d.accounts[username]
	if !ok {
		return Session{}, errors.WithType(errors.Errorf("account %q not found", username), ErrUnknownAccount)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return Session{}, errors.WithType(errors.Errorf("account %q: wrong password", username), ErrBadCredentials)
	}
	return Session{
		Username:    username,
		FullName:    a.FullName,
		Role:        a.Role,
		Node:        normalize(a.Node),
		Permissions: PermissionsOf(a.Role),
	}, nil
}

// HashPassword bcrypt hash suitable for Account.PasswordHash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Annotate(err, "hashing password")
	}
	return string(hash), nil
}

func normalize(node string) string {
	return strings.ToUpper(strings.TrimSpace(node))
}
