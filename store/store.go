// Package store owns the on-disk todo document and its mutation protocol.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klofront/todo-api/models"
	"github.com/sirupsen/logrus"
)

// Store reads, mutates and rewrites a single JSON document at a fixed path.
// The file is the sole source of truth: every operation re-reads it, so state
// survives restarts without any warm-up. The mutex serializes read-modify-
// write sequences so two concurrent mutations cannot lose each other's Save.
type Store struct {
	mu   sync.Mutex
	path string
	l    *logrus.Logger
}

func New(path string, l *logrus.Logger) *Store {
	return &Store{path: path, l: l}
}

// Load returns the current collection. A missing file is seeded with the
// empty collection; a corrupt or structurally invalid file is reset to it.
// The reset discards the previous contents, there is no secondary copy to
// merge from. Load only fails on an I/O error.
func (s *Store) Load() (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save durably persists the collection via write-to-temp plus atomic rename,
// so a reader never observes a half-written document.
func (s *Store) Save(c models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(c)
}

// Add appends a new todo with the next free id. Text is trimmed and must be
// non-empty; overlong text is truncated to models.MaxTextLength.
func (s *Store) Add(text string, done bool) (models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Todo{}, &ValidationError{Reason: "text must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return models.Todo{}, err
	}

	now := time.Now().UTC()
	item := models.Todo{
		ID:        c.NextID,
		Text:      truncate(text),
		Done:      done,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.NextID++
	c.Items = append(c.Items, item)

	if err := s.save(c); err != nil {
		return models.Todo{}, err
	}
	return item, nil
}

// Get returns the todo with the given id.
func (s *Store) Get(id int) (models.Todo, error) {
	if err := checkID(id); err != nil {
		return models.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return models.Todo{}, err
	}
	i := indexOf(c, id)
	if i < 0 {
		return models.Todo{}, &NotFoundError{ID: id}
	}
	return c.Items[i], nil
}

// Update applies the supplied fields to an existing todo. At least one of
// text/done must be non-nil; fields left nil are unchanged.
func (s *Store) Update(id int, text *string, done *bool) (models.Todo, error) {
	if err := checkID(id); err != nil {
		return models.Todo{}, err
	}
	if text == nil && done == nil {
		return models.Todo{}, &ValidationError{Reason: "at least one of text or done is required"}
	}
	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return models.Todo{}, &ValidationError{Reason: "text must not be empty"}
		}
		text = &trimmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return models.Todo{}, err
	}
	i := indexOf(c, id)
	if i < 0 {
		return models.Todo{}, &NotFoundError{ID: id}
	}

	if text != nil {
		c.Items[i].Text = truncate(*text)
	}
	if done != nil {
		c.Items[i].Done = *done
	}
	c.Items[i].UpdatedAt = time.Now().UTC()

	if err := s.save(c); err != nil {
		return models.Todo{}, err
	}
	return c.Items[i], nil
}

// Toggle flips the done flag of an existing todo.
func (s *Store) Toggle(id int) (models.Todo, error) {
	if err := checkID(id); err != nil {
		return models.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return models.Todo{}, err
	}
	i := indexOf(c, id)
	if i < 0 {
		return models.Todo{}, &NotFoundError{ID: id}
	}

	c.Items[i].Done = !c.Items[i].Done
	c.Items[i].UpdatedAt = time.Now().UTC()

	if err := s.save(c); err != nil {
		return models.Todo{}, err
	}
	return c.Items[i], nil
}

// Delete removes a todo and returns its prior value. The id is never
// reissued; NextID only ever grows.
func (s *Store) Delete(id int) (models.Todo, error) {
	if err := checkID(id); err != nil {
		return models.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return models.Todo{}, err
	}
	i := indexOf(c, id)
	if i < 0 {
		return models.Todo{}, &NotFoundError{ID: id}
	}

	removed := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)

	if err := s.save(c); err != nil {
		return models.Todo{}, err
	}
	return removed, nil
}

// ClearCompleted removes every done todo and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return 0, err
	}

	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.Done {
			kept = append(kept, item)
		}
	}
	cleared := len(c.Items) - len(kept)
	c.Items = kept

	if cleared == 0 {
		return 0, nil
	}
	if err := s.save(c); err != nil {
		return 0, err
	}
	return cleared, nil
}

// List returns todos sorted ascending by id. A non-nil done restricts to
// matching items; a non-blank q restricts to items whose text contains it
// case-insensitively. Both filters compose with AND.
func (s *Store) List(done *bool, q string) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	result := make([]models.Todo, 0, len(c.Items))
	for _, item := range c.Items {
		if done != nil && item.Done != *done {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Text), q) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Stats returns counts over the current collection.
func (s *Store) Stats() (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return models.Stats{}, err
	}

	st := models.Stats{Total: len(c.Items), NextID: c.NextID}
	for _, item := range c.Items {
		if item.Done {
			st.Done++
		}
	}
	st.Open = st.Total - st.Done
	return st, nil
}

// load must be called with the mutex held.
func (s *Store) load() (models.Collection, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.reset()
	}
	if err != nil {
		return models.Collection{}, fmt.Errorf("reading todo file %s: %w", s.path, err)
	}

	var c models.Collection
	if err := json.Unmarshal(raw, &c); err == nil && c.NextID >= 1 && c.Items != nil {
		return c, nil
	}

	// The document is unparsable or structurally invalid. It is the only
	// copy of the data, so recovery resets it to the seed collection.
	s.l.Warnf("todo file %s is corrupt, resetting to empty collection", s.path)
	return s.reset()
}

func (s *Store) reset() (models.Collection, error) {
	seed := models.Seed()
	if err := s.save(seed); err != nil {
		return models.Collection{}, err
	}
	return seed, nil
}

// save must be called with the mutex held. It writes the full document to a
// temp file in the same directory and renames it over the canonical path;
// a crash mid-write leaves the previous document intact.
func (s *Store) save(c models.Collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding todo file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

func checkID(id int) error {
	if id < 1 {
		return &ValidationError{Reason: "id must be a positive integer"}
	}
	return nil
}

func indexOf(c models.Collection, id int) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) <= models.MaxTextLength {
		return text
	}
	return string(r[:models.MaxTextLength])
}
