package board

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/DedS3t/monopoly-engine/pkg/engine"
)

//go:embed board.json chance.json community.json
var dataFiles embed.FS

// EditionUS is the only board data set shipped with the backend; the loader
// keys on an edition name so more can be embedded later.
const EditionUS = "us"

// LoadBoard builds the immutable board for an edition.
func LoadBoard(edition string) (*engine.Board, error) {
	if edition != EditionUS {
		return nil, fmt.Errorf("board: unknown edition %q", edition)
	}
	var spaces []engine.Space
	if err := loadJSON("board.json", &spaces); err != nil {
		return nil, err
	}
	return engine.NewBoard(spaces)
}

// LoadChanceCards returns the chance deck definitions in file order.
func LoadChanceCards() ([]engine.Card, error) {
	var cards []engine.Card
	if err := loadJSON("chance.json", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// LoadCommunityCards returns the community-chest deck definitions.
func LoadCommunityCards() ([]engine.Card, error) {
	var cards []engine.Card
	if err := loadJSON("community.json", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func loadJSON(name string, v interface{}) error {
	data, err := dataFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("board: reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("board: parsing %s: %w", name, err)
	}
	return nil
}
