package tags

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vytor/studyflash/internal/models"
)

//go:embed golden_list.yaml
var defaultGoldenListYAML []byte

// GoldenList is the immutable, ordered topic vocabulary.
type GoldenList struct {
	version string
	tags    []models.Tag
}

type goldenListFile struct {
	Version string   `yaml:"version"`
	Topics  []string `yaml:"topics"`
}

// NewGoldenList builds a list from canonical names. Names must be non-empty, carry no
// surrounding whitespace and be unique ignoring case.
func NewGoldenList(version string, names []string) (*GoldenList, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("golden list %q is empty", version)
	}
	seen := make(map[string]string, len(names))
	list := &GoldenList{version: version, tags: make([]models.Tag, 0, len(names))}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("golden list entry %d is blank", i+1)
		}
		if strings.TrimSpace(name) != name {
			return nil, fmt.Errorf("golden list entry %q has surrounding whitespace", name)
		}
		key := foldKey(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("golden list entries %q and %q collide", prev, name)
		}
		seen[key] = name
		list.tags = append(list.tags, models.Tag{ID: i + 1, Name: name})
	}
	return list, nil
}

// LoadGoldenList parses a YAML document with `version` and `topics` keys.
func LoadGoldenList(r io.Reader) (*GoldenList, error) {
	var f goldenListFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode golden list: %w", err)
	}
	return NewGoldenList(f.Version, f.Topics)
}

// LoadGoldenListFile reads a golden list from path.
func LoadGoldenListFile(path string) (*GoldenList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadGoldenList(f)
}

var (
	defaultOnce sync.Once
	defaultList *GoldenList
)

// DefaultGoldenList returns the list shipped with the binary.
func DefaultGoldenList() *GoldenList {
	defaultOnce.Do(func() {
		list, err := LoadGoldenList(strings.NewReader(string(defaultGoldenListYAML)))
		if err != nil {
			panic(fmt.Sprintf("embedded golden list is invalid: %v", err))
		}
		defaultList = list
	})
	return defaultList
}

func (l *GoldenList) Version() string { return l.version }

func (l *GoldenList) Len() int { return len(l.tags) }

// Tags returns a copy of the list in order.
func (l *GoldenList) Tags() []models.Tag {
	out := make([]models.Tag, len(l.tags))
	copy(out, l.tags)
	return out
}
