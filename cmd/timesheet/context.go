package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	v1 "itsheet.com/itsheet/client/v1"
	"itsheet.com/itsheet/editor"
)

var errNoSession = errors.New("not logged in, run 'timesheet login' first")

type Context struct {
	Server      string
	SessionPath string
}

// Client returns an API client carrying the stored session token.
func (c *Context) Client() (*v1.Client, editor.Session, error) {
	session, err := loadSession(c.SessionPath)
	if err != nil {
		return nil, editor.Session{}, err
	}
	return v1.NewClient(c.Server, session.Token), session, nil
}

func (c *Context) Background() context.Context {
	return context.Background()
}

func loadSession(path string) (editor.Session, error) {
	var session editor.Session
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return session, errNoSession
	}
	if err != nil {
		return session, fmt.Errorf("read session %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &session); err != nil {
		return session, fmt.Errorf("parse session %s: %w", path, err)
	}
	if session.Token == "" {
		return session, errNoSession
	}
	return session, nil
}

func saveSession(path string, session editor.Session) error {
	data, err := yaml.Marshal(session)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
