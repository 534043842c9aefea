package recipient

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// FileStore persists recipients in a plain text file, one address per
// line. The file is rewritten on every mutation, sorted case-insensitively
// with duplicates removed. Invalid lines are dropped on load.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Add(_ context.Context, address string) error {
	address = Normalize(address)
	if err := ValidateAddress(address); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	addresses, err := s.load()
	if err != nil {
		return err
	}
	for _, a := range addresses {
		if a == address {
			return fmt.Errorf("%w: %s", ErrDuplicateAddress, address)
		}
	}
	return s.save(append(addresses, address))
}

func (s *FileStore) Remove(_ context.Context, address string) error {
	address = Normalize(address)
	s.mu.Lock()
	defer s.mu.Unlock()
	addresses, err := s.load()
	if err != nil {
		return err
	}
	kept := addresses[:0]
	for _, a := range addresses {
		if a != address {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(addresses) {
		return fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}
	return s.save(kept)
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear removes every recipient by deleting the backing file.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove recipients file: %w", err)
	}
	return nil
}

// load reads the backing file. A missing file is an empty store.
func (s *FileStore) load() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := Normalize(scanner.Text())
		if line == "" {
			continue
		}
		// Skip lines that a previous version may have saved unvalidated.
		if ValidateAddress(line) != nil {
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipients file: %w", err)
	}
	return addresses, nil
}

func (s *FileStore) save(addresses []string) error {
	unique := make([]string, 0, len(addresses))
	seen := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		if !seen[a] {
			seen[a] = true
			unique = append(unique, a)
		}
	}
	sort.Strings(unique)
	content := strings.Join(unique, "\n")
	if err := os.WriteFile(s.path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write recipients file: %w", err)
	}
	return nil
}
