package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
)

// Parse decodes a metadata document.
//
// Drawings whose id field is empty take the id of their key in the
// drawings mapping. Parse fails only on malformed JSON; missing fields are
// left empty.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidMetadata, err, "decode metadata")
	}
	for _, id := range m.Drawings.Keys() {
		d, _ := m.Drawings.Get(id)
		if d == nil {
			continue
		}
		if d.ID == "" {
			d.ID = id
		}
	}
	return &m, nil
}

// Read decodes a metadata document from r. Read does not close r.
func Read(r io.Reader) (*Metadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return Parse(data)
}

// ReadFile decodes the metadata document stored at path.
func ReadFile(path string) (*Metadata, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return Parse(data)
}

// Write encodes m as indented JSON, keeping mapping order.
func (m *Metadata) Write(w io.Writer) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent metadata: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
