package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/algoanim/internal/system"
)

var deckExts = []string{".yaml", ".yml", ".json"}

// DeckVersion is the deck format version written by WriteDeck.
const DeckVersion = "1.0"

// Deck is an ordered scene sequence as stored on disk.
type Deck struct {
	Version string  `json:"version" yaml:"version"`
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Scenes  []Scene `json:"scenes" yaml:"scenes"`
}

// ReadDeck reads a deck from a YAML or JSON file. JSON files may also hold a
// bare array of scenes.
func ReadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	deck, err := ParseDeck(data, isJSON(path))
	if err != nil {
		return nil, fmt.Errorf("parsing deck %s: %w", filepath.Base(path), err)
	}
	return deck, nil
}

// ParseDeck decodes deck bytes. asJSON selects the JSON decoder, otherwise YAML.
func ParseDeck(data []byte, asJSON bool) (*Deck, error) {
	var deck Deck
	if asJSON {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &deck.Scenes); err != nil {
				return nil, err
			}
		} else if err := json.Unmarshal(trimmed, &deck); err != nil {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, err
	}

	if deck.Version == "" {
		deck.Version = DeckVersion
	}
	if deck.Version != DeckVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, deck.Version)
	}
	if len(deck.Scenes) == 0 {
		return nil, ErrEmptyDeck
	}
	return &deck, nil
}

// WriteDeck writes a deck to a YAML file, or JSON when the extension is .json.
func WriteDeck(deck *Deck, path string) error {
	if deck.Version == "" {
		deck.Version = DeckVersion
	}

	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(deck, "", "  ")
	} else {
		data, err = yaml.Marshal(deck)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindLatestDeck returns the most recently modified deck file in dir.
func FindLatestDeck(dir string) (string, error) {
	return system.FindLatest(dir, deckExts...)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
