// Package store keeps the per-chat todo lists and the set of known chats in
// memory and persists them to two snapshot files.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Store holds the todo lists and the known chat ids behind a single mutex.
// The zero value is not usable; create one with New.
type Store struct {
	mu    sync.Mutex
	todos map[int64][]string
	users map[int64]struct{}

	todoPath  string
	usersPath string
	logger    *slog.Logger
}

// Snapshot is a deep copy of the store contents.
type Snapshot struct {
	Todos map[int64][]string
	Users []int64
}

// New creates an empty store persisted to todoPath and usersPath.
func New(todoPath, usersPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		todos:     make(map[int64][]string),
		users:     make(map[int64]struct{}),
		todoPath:  todoPath,
		usersPath: usersPath,
		logger:    logger.With("component", "store"),
	}
}

// AddTask appends task to the todo list of chatID.
func (s *Store) AddTask(chatID int64, task string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos[chatID] = append(s.todos[chatID], task)
}

// Tasks returns a copy of the todo list of chatID in insertion order.
// A chat without tasks yields an empty, non-nil slice.
func (s *Store) Tasks(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]string, len(s.todos[chatID]))
	copy(tasks, s.todos[chatID])
	return tasks
}

// Register adds chatID to the known chats. It reports whether the chat was new.
func (s *Store) Register(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[chatID]; ok {
		return false
	}
	s.users[chatID] = struct{}{}
	return true
}

// IsRegistered reports whether chatID has interacted with the bot before.
func (s *Store) IsRegistered(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[chatID]
	return ok
}

// ChatIDs returns the known chat ids in ascending order.
func (s *Store) ChatIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatIDsLocked()
}

func (s *Store) chatIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Snapshot returns a deep copy of both collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make(map[int64][]string, len(s.todos))
	for id, tasks := range s.todos {
		todos[id] = slices.Clone(tasks)
	}
	return Snapshot{Todos: todos, Users: s.chatIDsLocked()}
}

// Load replaces the in-memory collections with the snapshot files.
// A missing file leaves its collection empty. Read and decode failures are
// logged and also leave the affected collection empty; they never abort startup.
func (s *Store) Load() {
	todos, err := readTodos(s.todoPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("Todo snapshot not found, starting empty", "path", s.todoPath)
		todos = make(map[int64][]string)
	case err != nil:
		s.logger.Error("Failed to read todo snapshot", "path", s.todoPath, "error", err)
		todos = make(map[int64][]string)
	}

	users, err := readUsers(s.usersPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("Users snapshot not found, starting empty", "path", s.usersPath)
		users = make(map[int64]struct{})
	case err != nil:
		s.logger.Error("Failed to read users snapshot", "path", s.usersPath, "error", err)
		users = make(map[int64]struct{})
	}

	s.mu.Lock()
	s.todos = todos
	s.users = users
	s.mu.Unlock()

	s.logger.Info("Store loaded", "todo_chats", len(todos), "users", len(users))
}

// Save writes both snapshot files. The lock is held only while copying.
func (s *Store) Save() error {
	snap := s.Snapshot()

	todoData, err := json.Marshal(snap.Todos)
	if err != nil {
		return fmt.Errorf("failed to encode todo snapshot: %w", err)
	}
	if err := writeFileAtomic(s.todoPath, todoData); err != nil {
		return fmt.Errorf("failed to write todo snapshot: %w", err)
	}

	lines := make([]string, len(snap.Users))
	for i, id := range snap.Users {
		lines[i] = strconv.FormatInt(id, 10)
	}
	if err := writeFileAtomic(s.usersPath, []byte(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("failed to write users snapshot: %w", err)
	}

	s.logger.Info("Store saved", "todo_chats", len(snap.Todos), "users", len(snap.Users))
	return nil
}

func readTodos(path string) (map[int64][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	todos := make(map[int64][]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return todos, nil
	}
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("invalid todo snapshot: %w", err)
	}
	return todos, nil
}

func readUsers(path string) (map[int64]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	users := make(map[int64]struct{})
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id on line %d: %w", lineNo, err)
		}
		users[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// writeFileAtomic replaces path with data via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
