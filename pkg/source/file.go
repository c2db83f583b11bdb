package source

import (
	"context"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

// FileSource reads the document from a local file.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the file at path.
func NewFileSource(path string) (*FileSource, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &FileSource{path: path}, nil
}

func (s *FileSource) Load(ctx context.Context) (*metadata.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return metadata.ReadFile(s.path)
}

func (s *FileSource) String() string { return "file:" + s.path }
