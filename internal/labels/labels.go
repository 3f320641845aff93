// Package labels reconciles a model's output vector with a class
// vocabulary and renders the ranked report.
package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Brownie44l1/litert-classify/internal/postprocess"
)

// Background is the synthetic entry prepended when the model reserves an
// extra class at index 0.
const Background = "background"

// Table maps model output indices to display labels. A nil Table is
// usable: every index resolves to a synthetic class_<n> name.
type Table struct {
	entries []string
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Label returns the display label for a class index, or class_<idx> when
// the table is absent or does not cover the index.
func (t *Table) Label(idx int) string {
	if t != nil && idx >= 0 && idx < len(t.entries) {
		return t.entries[idx]
	}
	return fmt.Sprintf("class_%d", idx)
}

// Resolve builds the label table for a model with outputSize classes. The
// class list holds one identifier per non-blank line; the optional
// metadata file maps identifiers to human-readable names. A vocabulary
// whose length cannot be reconciled with outputSize, even after allowing
// for one reserved background class, is absent (nil, nil) rather than an
// error; it is discarded, never partially aligned.
func Resolve(classPath, metadataPath string, outputSize int) (*Table, error) {
	ids, err := loadClassList(classPath)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if outputSize == len(ids)+1 {
		ids = append([]string{Background}, ids...)
	}
	if len(ids) != outputSize {
		return nil, nil
	}
	names, err := loadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}
	entries := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := names[id]; ok && name != id {
			entries[i] = id + " " + name
		} else {
			entries[i] = id
		}
	}
	return &Table{entries: entries}, nil
}

func loadClassList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}
	defer f.Close()
	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			ids = append(ids, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}
	return ids, nil
}

// loadMetadata reads the tab-separated identifier->name mapping. A
// missing file is an empty mapping, not an error.
func loadMetadata(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer f.Close()
	names := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, name, ok := strings.Cut(line, "\t")
		if ok && id != "" && name != "" {
			names[id] = name
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return names, nil
}

// WriteTopK writes the k most probable classes to w, one
// "rank: label (probability)" line per class, probabilities formatted to
// six decimal places.
func WriteTopK(w io.Writer, probs []float32, table *Table, k int) error {
	for i, p := range postprocess.TopK(probs, k) {
		if _, err := fmt.Fprintf(w, "%d: %s (%.6f)\n", i+1, table.Label(p.Index), p.Probability); err != nil {
			return err
		}
	}
	return nil
}
