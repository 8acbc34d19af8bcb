package tips

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"spinnertip/facts"
)

type factsFile struct {
	Facts []string `toml:"facts"`
}

// Store hands out facts at random.
type Store struct {
	mu    sync.RWMutex
	facts []string
	pick  func(n int) int
}

func NewStore(list []string) *Store {
	s := &Store{pick: rand.IntN}
	s.Replace(list)
	return s
}

// Load reads path when given and falls back to the built-in list when the
// file is missing, unreadable or empty.
func Load(path string) (*Store, error) {
	if path == "" {
		return NewStore(facts.Default), nil
	}
	list, err := LoadFile(path)
	if err != nil {
		return NewStore(facts.Default), err
	}
	return NewStore(list), nil
}

// LoadFile reads a fact list from a .toml file (facts = [...]) or a .json
// file holding an array of strings.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts file %s: %w", path, err)
	}

	var list []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var f factsFile
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse facts file %s: %w", path, err)
		}
		list = f.Facts
	case ".json":
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse facts file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported facts file type %q", filepath.Ext(path))
	}

	list = clean(list)
	if len(list) == 0 {
		return nil, fmt.Errorf("facts file %s: %w", path, facts.ErrNoFacts)
	}
	return list, nil
}

func clean(list []string) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Replace swaps the list. An empty list keeps a single fallback fact.
func (s *Store) Replace(list []string) {
	list = clean(list)
	if len(list) == 0 {
		list = []string{facts.Fallback}
	}
	s.mu.Lock()
	s.facts = list
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts)
}

func (s *Store) Random() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facts[s.pick(len(s.facts))]
}
