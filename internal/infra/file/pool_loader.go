package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"civics-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

var poolExtensions = []string{".json", ".yaml", ".yml"}

// PoolLoader reads pools from {dir}/{name}.json, .yaml or .yml.
type PoolLoader struct {
	dir string
}

func NewPoolLoader(dir string) *PoolLoader {
	return &PoolLoader{dir: dir}
}

func (l *PoolLoader) LoadPool(_ context.Context, name string) ([]domain.RawQuestion, error) {
	for _, ext := range poolExtensions {
		path := filepath.Join(l.dir, name+ext)
		questions, err := ReadPoolFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return questions, err
	}
	return nil, fmt.Errorf("%w: %s in %s", domain.ErrPoolNotFound, name, l.dir)
}

// ReadPoolFile decodes a { "questions": [...] } document. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func ReadPoolFile(path string) ([]domain.RawQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pool domain.Pool
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pool)
	default:
		err = json.Unmarshal(data, &pool)
	}
	if err != nil {
		return nil, fmt.Errorf("decode pool %s: %w", path, err)
	}
	return pool.Questions, nil
}

// WritePool encodes questions as an indented { "questions": [...] } JSON document.
func WritePool(w io.Writer, questions []domain.RawQuestion) error {
	if questions == nil {
		questions = []domain.RawQuestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(domain.Pool{Questions: questions})
}
