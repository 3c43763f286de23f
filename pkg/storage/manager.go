// Package storage writes captured photos into a dated, per-subject
// directory layout.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxNameLength = 100

// Manager saves photos under {root}/{date}/{subject}/stop{N}_{heading}.jpg.
// Stops where the subject stayed unknown are filed as UNKNOWN_STOP{N}.
type Manager struct {
	root        string
	sessionDate string
	log         *logrus.Entry

	captured []string
}

func NewManager(root string, log *logrus.Entry) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}
	return &Manager{
		root:        root,
		sessionDate: time.Now().Format("2006-01-02"),
		log:         log,
	}, nil
}

// PhotoPath returns the destination path for a capture, creating the
// containing directory.
func (m *Manager) PhotoPath(subjectID string, stopNumber int, headingName string) (string, error) {
	subject := sanitize(subjectID)
	if strings.EqualFold(subjectID, "UNKNOWN") {
		subject = fmt.Sprintf("UNKNOWN_STOP%d", stopNumber)
	}

	dir := filepath.Join(m.root, m.sessionDate, subject)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating photo directory: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("stop%d_%s.jpg", stopNumber, headingName)), nil
}

// SaveFrame writes an encoded frame to its place in the layout and returns
// the path.
func (m *Manager) SaveFrame(frame []byte, subjectID string, stopNumber int, headingName string) (string, error) {
	path, err := m.PhotoPath(subjectID, stopNumber, headingName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, frame, 0o644); err != nil {
		return "", fmt.Errorf("error writing photo: %w", err)
	}

	m.captured = append(m.captured, path)
	m.log.Infof("saved photo: %s", path)
	return path, nil
}

// SessionPhotos lists every photo saved through this manager.
func (m *Manager) SessionPhotos() []string {
	return append([]string(nil), m.captured...)
}

// SessionDate returns the date directory the session writes into.
func (m *Manager) SessionDate() string {
	return m.sessionDate
}

// ListSubjects lists the subject directories recorded on the given date,
// defaulting to the current session date.
func (m *Manager) ListSubjects(date string) ([]string, error) {
	if date == "" {
		date = m.sessionDate
	}
	entries, err := os.ReadDir(filepath.Join(m.root, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}

	var subjects []string
	for _, entry := range entries {
		if entry.IsDir() {
			subjects = append(subjects, entry.Name())
		}
	}
	return subjects, nil
}

func sanitize(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	if len(sanitized) > maxNameLength {
		sanitized = sanitized[:maxNameLength]
	}
	return strings.TrimSpace(sanitized)
}
