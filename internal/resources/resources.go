// Package resources reads the file-backed configuration documents: the
// global default resource ceiling, the node list, the egg templates, and the
// external links. Documents are read fresh on every call; there is no
// caching, so edits take effect on the next request.
package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/azrova/azrovadash/internal/models"
)

var ErrEggNotFound = errors.New("egg configuration not found")

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadDefaults reads default_server_resources.json, the quota ceiling applied
// uniformly to every user.
func (s *Store) LoadDefaults() (*models.DefaultResources, error) {
	defaults := &models.DefaultResources{}
	if err := s.readJSON("default_server_resources.json", defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// LoadNodes reads nodes.json. An empty node list is invalid: nothing could be
// provisioned anywhere.
func (s *Store) LoadNodes() ([]models.Node, error) {
	var nodes []models.Node
	if err := s.readJSON("nodes.json", &nodes); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("nodes configuration is empty")
	}
	return nodes, nil
}

// LoadEggs reads every *.json document under the eggs directory.
func (s *Store) LoadEggs() ([]models.Egg, error) {
	eggsDir := filepath.Join(s.dir, "eggs")
	entries, err := os.ReadDir(eggsDir)
	if err != nil {
		return nil, fmt.Errorf("read eggs directory: %w", err)
	}

	var eggs []models.Egg
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var egg models.Egg
		if err := s.readJSON(filepath.Join("eggs", entry.Name()), &egg); err != nil {
			return nil, err
		}
		eggs = append(eggs, egg)
	}

	if len(eggs) == 0 {
		return nil, fmt.Errorf("no egg configurations found")
	}
	return eggs, nil
}

// FindEgg returns the egg template with the given id.
func (s *Store) FindEgg(eggID int) (*models.Egg, error) {
	eggs, err := s.LoadEggs()
	if err != nil {
		return nil, err
	}
	for i := range eggs {
		if eggs[i].ID == eggID {
			return &eggs[i], nil
		}
	}
	return nil, ErrEggNotFound
}

// LoadLinks reads links.json. A missing or malformed file is not fatal to the
// links page; the caller renders the error inline.
func (s *Store) LoadLinks() ([]models.Link, error) {
	var document struct {
		Links []models.Link `json:"links"`
	}
	if err := s.readJSON("links.json", &document); err != nil {
		return nil, err
	}
	if document.Links == nil {
		return nil, fmt.Errorf("links configuration is improperly formatted")
	}
	return document.Links, nil
}

func (s *Store) readJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
