// Package auth checks usernames and passwords against a JSON users file
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"
)

var ErrInvalidUsersFile = errors.New("users file must be a JSON object of username to password")

// Users maps a username to its password
type Users map[string]string

// LoadUsers reads a {"name": "password"} JSON file
func LoadUsers(path string) (Users, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	return ParseUsers(data)
}

// ParseUsers parses the users document. Non-string passwords are rejected.
func ParseUsers(data []byte) (Users, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidUsersFile
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrInvalidUsersFile
	}

	users := make(Users)
	var parseErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			parseErr = fmt.Errorf("%w: password for %q is not a string", ErrInvalidUsersFile, key.String())
			return false
		}
		users[key.String()] = value.String()
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return users, nil
}

// Check reports whether the credentials match a known user
func (u Users) Check(username, password string) bool {
	want, ok := u[username]
	if !ok {
		// Compare anyway so unknown users take the same time
		subtle.ConstantTimeCompare([]byte(password), []byte(password))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}

// Names returns the usernames in lexical order
func (u Users) Names() []string {
	names := make([]string, 0, len(u))
	for name := range u {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
