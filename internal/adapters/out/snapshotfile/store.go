// Package snapshotfile keeps snapshot slots as files in one directory, one
// file per slot, encoded as JSON or YAML. Writes go to a temporary file that
// is renamed over the slot, so a crash never leaves a torn save.
package snapshotfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Format selects the file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("format", fmt.Errorf("%q is not json or yaml", s))
	}
}

func (f Format) ext() string {
	return "." + string(f)
}

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore on a directory.
type Store struct {
	dir    string
	format Format
}

// NewStore creates dir if needed.
func NewStore(dir string, format Format) (*Store, error) {
	if dir == "" {
		return nil, errs.NewValueIsRequiredError("dir")
	}
	if format != JSON && format != YAML {
		return nil, errs.NewValueIsInvalidError("format")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &Store{dir: dir, format: format}, nil
}

func (s *Store) path(slot string) string {
	return filepath.Join(s.dir, slot+s.format.ext())
}

// Save encodes snap in the store format and writes it to the slot file.
// The file is written to a temporary name first and renamed into place, so a
// failed save leaves the previous content of the slot intact.
func (s *Store) Save(ctx context.Context, slot string, snap snapshot.Snapshot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(s.format, snap)
	if err != nil {
		return fmt.Errorf("encode slot %q: %w", slot, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	return nil
}

// Load reads and decodes the slot file. A missing slot is an object not found
// error and an undecodable file is a value is invalid error.
func (s *Store) Load(ctx context.Context, slot string) (snapshot.Snapshot, error) {
	if err := checkSlot(slot); err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}

	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snapshot.Snapshot{}, errs.NewObjectNotFoundErrorWithCause("slot", slot, err)
		}
		return snapshot.Snapshot{}, fmt.Errorf("load slot %q: %w", slot, err)
	}

	snap, err := Decode(s.format, data)
	if err != nil {
		return snapshot.Snapshot{}, errs.NewValueIsInvalidErrorWithCause("slot "+slot, err)
	}
	return snap, nil
}

// List returns slot names in name order. Files of the other format and
// leftover temporary files are ignored.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if slot, ok := strings.CutSuffix(name, s.format.ext()); ok && slot != "" {
			names = append(names, slot)
		}
	}
	slices.Sort(names)
	return names, nil
}

func checkSlot(slot string) error {
	if slot == "" {
		return errs.NewValueIsRequiredError("slot")
	}
	if slot != filepath.Base(slot) || strings.HasPrefix(slot, ".") {
		return errs.NewValueIsInvalidErrorWithCause("slot", fmt.Errorf("%q is not a plain file name", slot))
	}
	return nil
}

// Encode renders snap in format.
func Encode(format Format, snap snapshot.Snapshot) ([]byte, error) {
	switch format {
	case JSON:
		return json.MarshalIndent(snap, "", "  ")
	case YAML:
		return yaml.Marshal(snap)
	default:
		return nil, errs.NewValueIsInvalidError("format")
	}
}

// Decode parses data written by Encode. Missing fields keep their zero
// values.
func Decode(format Format, data []byte) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, &snap)
	case YAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = errs.NewValueIsInvalidError("format")
	}
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

// FormatOf guesses the format from a file name, for the inspect command.
func FormatOf(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
