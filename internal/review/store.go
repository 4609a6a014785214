// Package review manages the pending-review queue: claims whose
// recommendation routes past the front-line agent wait here for a human
// decision. Items are JSON files on disk, one per claim, written atomically.
package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// validKey matches alphanumeric, dash, underscore, and dot characters only.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// validateKey rejects claim IDs that could cause path traversal.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("claim id must not be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("claim id must not contain '..'")
	}
	if !validKey.MatchString(key) {
		return fmt.Errorf("claim id contains invalid characters: only alphanumeric, dash, underscore, and dot are allowed")
	}
	return nil
}

// Status represents the state of a review item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusConsumed Status = "consumed"
	StatusExpired  Status = "expired"
)

// Review represents a single claim waiting for (or resolved by) a human
// reviewer.
type Review struct {
	ClaimID        string     `json:"claim_id"`
	Status         Status     `json:"status"`
	Recommendation string     `json:"recommendation"`
	Reason         string     `json:"reason"`
	AssignTo       string     `json:"assign_to"`
	Priority       int        `json:"priority"`
	TotalMax       int64      `json:"total_max"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// Store manages review files on disk.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store backed by the given directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create review directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the default review store directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "claimgate-reviews")
	}
	return filepath.Join(home, ".claimgate", "reviews")
}

// Enqueue creates a pending review file. No-op if one already exists for
// the claim.
func (s *Store) Enqueue(claimID, recommendation, reason, assignTo string, priority int, totalMax int64) error {
	if err := validateKey(claimID); err != nil {
		return fmt.Errorf("invalid claim id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(claimID)
	if _, err := os.Stat(path); err == nil {
		return nil // already queued
	}

	r := Review{
		ClaimID:        claimID,
		Status:         StatusPending,
		Recommendation: recommendation,
		Reason:         reason,
		AssignTo:       assignTo,
		Priority:       priority,
		TotalMax:       totalMax,
		CreatedAt:      time.Now().UTC(),
	}

	return s.writeAtomic(path, r)
}

// Approve marks a review as approved. If duration > 0, the approval expires
// after it; duration == 0 means a one-time approval consumed on settlement.
func (s *Store) Approve(claimID string, duration time.Duration) error {
	if err := validateKey(claimID); err != nil {
		return fmt.Errorf("invalid claim id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(claimID)
	if err != nil {
		return fmt.Errorf("review %q not found: %w", claimID, err)
	}

	r.Status = StatusApproved
	now := time.Now().UTC()
	r.ResolvedAt = &now
	if duration > 0 {
		exp := now.Add(duration)
		r.ExpiresAt = &exp
	}

	return s.writeAtomic(s.path(claimID), *r)
}

// Deny marks a review as denied.
func (s *Store) Deny(claimID string) error {
	if err := validateKey(claimID); err != nil {
		return fmt.Errorf("invalid claim id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(claimID)
	if err != nil {
		return fmt.Errorf("review %q not found: %w", claimID, err)
	}

	r.Status = StatusDenied
	now := time.Now().UTC()
	r.ResolvedAt = &now

	return s.writeAtomic(s.path(claimID), *r)
}

// Check returns the current status of a review.
// Returns StatusExpired if an approval has passed its deadline.
func (s *Store) Check(claimID string) (Status, error) {
	if err := validateKey(claimID); err != nil {
		return "", fmt.Errorf("invalid claim id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(claimID)
	if err != nil {
		return "", fmt.Errorf("review %q not found", claimID)
	}

	if r.Status == StatusApproved && r.ExpiresAt != nil && time.Now().UTC().After(*r.ExpiresAt) {
		r.Status = StatusExpired
		s.writeAtomic(s.path(claimID), *r)
		return StatusExpired, nil
	}

	return r.Status, nil
}

// Consume marks a one-time approval as consumed (the claim was settled).
func (s *Store) Consume(claimID string) error {
	if err := validateKey(claimID); err != nil {
		return fmt.Errorf("invalid claim id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(claimID)
	if err != nil {
		return fmt.Errorf("review %q not found: %w", claimID, err)
	}

	if r.Status == StatusConsumed {
		return fmt.Errorf("review %q already consumed", claimID)
	}

	r.Status = StatusConsumed
	now := time.Now().UTC()
	r.ResolvedAt = &now

	return s.writeAtomic(s.path(claimID), *r)
}

// List returns all reviews in the store.
func (s *Store) List() ([]Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var reviews []Review
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		claimID := strings.TrimSuffix(e.Name(), ".json")
		r, err := s.read(claimID)
		if err != nil {
			continue
		}
		reviews = append(reviews, *r)
	}

	return reviews, nil
}

// Cleanup removes all review files in the store.
func (s *Store) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Store) path(claimID string) string {
	return filepath.Join(s.dir, claimID+".json")
}

func (s *Store) read(claimID string) (*Review, error) {
	data, err := os.ReadFile(s.path(claimID))
	if err != nil {
		return nil, err
	}

	var r Review
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

func (s *Store) writeAtomic(path string, r Review) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
