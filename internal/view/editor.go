// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/wI2L/jsondiff"

	"github.com/userdeck/userdeck/internal/dao"
)

// Editor errors.
const (
	ErrEditorCancelled = dao.Error("editor cancelled")
	ErrNoChanges       = dao.Error("no changes detected")
)

// readOnlyKeys are server assigned and never offered for editing.
var readOnlyKeys = []string{"id", "createdAt"}

// Suspender suspends the terminal UI while fn runs.
type Suspender interface {
	Suspend(fn func()) bool
}

// SaveUserFunc persists an edited user.
type SaveUserFunc func(context.Context, dao.User) error

// EditSession represents an in-progress edit of a user document.
type EditSession struct {
	User     dao.User
	Editable map[string]interface{}
	TempFile string
	ErrorMsg string
}

// NewEditSession returns a session editing every user field but the server
// assigned ones.
func NewEditSession(u dao.User) (*EditSession, error) {
	doc, err := toDocument(u)
	if err != nil {
		return nil, err
	}
	for _, k := range readOnlyKeys {
		delete(doc, k)
	}

	return &EditSession{User: u, Editable: doc}, nil
}

// StartEdit writes the document to a temp file, spawns the editor and
// returns the modified document.
func (e *EditSession) StartEdit(app Suspender) (map[string]interface{}, error) {
	tmpFile, err := os.CreateTemp("", "userdeck-edit-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	e.TempFile = tmpFile.Name()

	if err := e.writeDocument(tmpFile); err != nil {
		_ = tmpFile.Close()
		return nil, err
	}
	_ = tmpFile.Close()

	exitCode, err := e.spawnEditor(app)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	if exitCode != 0 {
		return nil, ErrEditorCancelled
	}

	content, err := os.ReadFile(e.TempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	return parseDocument(content)
}

func (e *EditSession) spawnEditor(app Suspender) (int, error) {
	editor := getEditor()

	var exitCode int
	suspended := app.Suspend(func() {
		cmd := exec.Command(editor, e.TempFile)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				exitCode = 1
			}
		}
	})
	if !suspended {
		return 1, errors.New("failed to suspend application")
	}

	return exitCode, nil
}

// writeDocument writes the editable document, preceded by the last error
// as a comment block on retries.
func (e *EditSession) writeDocument(f *os.File) error {
	var buf bytes.Buffer
	if e.ErrorMsg != "" {
		buf.WriteString("// ERROR: " + e.ErrorMsg + "\n")
		buf.WriteString("// Fix the issue below and save, or save without changes to cancel.\n")
		buf.WriteString("// ---\n\n")
	}

	raw, err := json.MarshalIndent(e.Editable, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	buf.Write(raw)
	buf.WriteString("\n")

	_, err = f.Write(buf.Bytes())
	return err
}

// Apply builds the user described by an edited document. Keys removed from
// the document are left empty. Server assigned fields are kept.
func (e *EditSession) Apply(modified map[string]interface{}) (dao.User, error) {
	raw, err := json.Marshal(modified)
	if err != nil {
		return dao.User{}, fmt.Errorf("failed to marshal document: %w", err)
	}
	var u dao.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return dao.User{}, fmt.Errorf("invalid user document: %w", err)
	}
	u.ID, u.CreatedAt = e.User.ID, e.User.CreatedAt

	return u, nil
}

// Cleanup removes the temporary file.
func (e *EditSession) Cleanup() {
	if e.TempFile != "" {
		_ = os.Remove(e.TempFile)
		e.TempFile = ""
	}
}

// SetError sets the error message for display on retry.
func (e *EditSession) SetError(msg string) {
	e.ErrorMsg = msg
}

// GeneratePatch creates a JSON Patch document from original and modified.
// It returns ErrNoChanges if they are identical.
func GeneratePatch(original, modified map[string]interface{}) (string, error) {
	patch, err := jsondiff.Compare(original, modified)
	if err != nil {
		return "", fmt.Errorf("failed to generate patch: %w", err)
	}
	if len(patch) == 0 {
		return "", ErrNoChanges
	}

	raw, err := json.Marshal(patch)
	if err != nil {
		return "", fmt.Errorf("failed to marshal patch: %w", err)
	}

	return string(raw), nil
}

// EditUser runs the edit loop for u. A failed save reopens the editor with
// the error on top of the document.
func EditUser(ctx context.Context, app Suspender, u dao.User, save SaveUserFunc) error {
	session, err := NewEditSession(u)
	if err != nil {
		return err
	}
	defer session.Cleanup()

	for {
		modified, err := session.StartEdit(app)
		if err != nil {
			return err
		}

		if _, err := GeneratePatch(session.Editable, modified); err != nil {
			if errors.Is(err, ErrNoChanges) && session.ErrorMsg != "" {
				return ErrEditorCancelled
			}
			return err
		}

		edited, err := session.Apply(modified)
		if err == nil {
			err = save(ctx, edited)
		}
		if err != nil {
			session.SetError(err.Error())
			session.Editable = modified
			continue
		}

		return nil
	}
}

func toDocument(u dao.User) (map[string]interface{}, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return doc, nil
}

func parseDocument(content []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(stripErrorComment(content), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

// getEditor returns the editor command to use.
// Checks $EDITOR, then $VISUAL, then falls back to vim, then nano.
func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("vim"); err == nil {
		return "vim"
	}
	return "nano"
}

// stripErrorComment removes the comment block from the top of content.
func stripErrorComment(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	startIdx := 0
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("//")) {
			startIdx = i + 1
			continue
		}
		break
	}

	if startIdx > 0 && startIdx < len(lines) {
		return bytes.Join(lines[startIdx:], []byte("\n"))
	}
	return content
}
