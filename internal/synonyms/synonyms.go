// Package synonyms provides the static synonym map used for keyword scoring:
// a canonical query term mapped to the surface variants (stems, particles,
// inflections) treated as equivalent. The map is read-only at query time.
package synonyms

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Map associates a canonical term with its surface variants.
type Map map[string][]string

// Default returns the built-in map covering common Korean paraphrases seen in
// student questions about notices.
func Default() Map {
	return Map{
		"불이익": {"불이익", "제한", "불이익이", "불이익을", "불이익은"},
		"빌리":  {"빌리", "빌려", "대여", "대여하다", "대여가능"},
		"빌릴":  {"빌릴", "대여"},
		"누구":  {"누구", "누구야", "누구인지", "누가"},
	}
}

// tomlFile is the on-disk shape of a synonym override file:
//
//	[synonyms]
//	불이익 = ["불이익", "제한"]
type tomlFile struct {
	Synonyms map[string][]string `toml:"synonyms"`
}

// LoadTOML reads a synonym map from a TOML file. Entries replace the
// defaults wholesale; an empty file yields an empty map.
func LoadTOML(path string) (Map, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms file '%s': %w", path, err)
	}

	var file tomlFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms TOML: %w", err)
	}

	m := make(Map, len(file.Synonyms))
	for key, variants := range file.Synonyms {
		m[key] = variants
	}
	return m, nil
}
