package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	iyaml "github.com/invopop/yaml"
)

// File is the on-disk format for custom fingerprint additions
type File struct {
	Fingerprints []Fingerprint `json:"fingerprints"`
}

// strictDecoding rejects unknown keys so typos in custom fingerprints fail loudly
func strictDecoding(d *json.Decoder) *json.Decoder {
	d.DisallowUnknownFields()
	return d
}

// Parse decodes and validates a YAML (or JSON) fingerprint document
func Parse(data []byte) ([]Fingerprint, error) {
	var file File
	if err := iyaml.Unmarshal(data, &file, strictDecoding); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	seen := make(map[string]struct{}, len(file.Fingerprints))

	for i := range file.Fingerprints {
		fp := &file.Fingerprints[i]
		fp.Provider = strings.ToLower(strings.TrimSpace(fp.Provider))

		if err := fp.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformedFingerprint, i, err)
		}

		if _, dup := seen[fp.Provider]; dup {
			return nil, fmt.Errorf("%w: entry %d: %w: %s", ErrMalformedFingerprint, i, ErrDuplicateProvider, fp.Provider)
		}

		seen[fp.Provider] = struct{}{}
	}

	return file.Fingerprints, nil
}

// LoadFile reads custom fingerprints from path
func LoadFile(path string) ([]Fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	return Parse(data)
}

// Load builds the effective table from the built-in registry plus the optional custom file at path
func Load(path string) (*Table, error) {
	fps := Builtin()

	if path != "" {
		custom, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		fps = Merge(fps, custom)
	}

	return NewTable(fps)
}
