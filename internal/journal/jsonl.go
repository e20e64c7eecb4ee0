package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// maxLineSize bounds a single exported interaction.
const maxLineSize = 1 << 20

// readInteractions returns the interactions stored in an exported JSONL
// file. Lines that do not decode or carry no interaction id are skipped. A
// missing file holds no interactions.
func readInteractions(path string) ([]Interaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []Interaction
	scanner := bufio.NewScanner(f)
	scanner.Buffer(nil, maxLineSize)
	for scanner.Scan() {
		var in Interaction
		if json.Unmarshal(scanner.Bytes(), &in) != nil || in.ID == "" {
			continue
		}
		out = append(out, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// exportInteractions replaces the JSONL file at path with one line per
// interaction. The file is written next to path and renamed into place, so
// readers see either the old export or the new one.
func exportInteractions(path string, all []Interaction) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+jsonlFileName+"-*")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, in := range all {
		if err := enc.Encode(in); err != nil {
			return fmt.Errorf("encode %s: %w", in.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
