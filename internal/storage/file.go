package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// FileStore keeps one directory per run holding metadata.json,
// lineages.json and histories.csv.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta = complete(meta, result)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	lineages := make([]Lineage, len(result.Histories))
	for i, h := range result.Histories {
		lineages[i] = lineageOf(h)
	}
	if err := writeJSON(filepath.Join(runDir, "lineages.json"), lineages); err != nil {
		return "", err
	}

	if err := writeSamples(filepath.Join(runDir, "histories.csv"), result.Histories); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, histories []*dynamo.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"body_id", "step", "x", "y", "z"}); err != nil {
		return err
	}

	for _, h := range histories {
		id := strconv.FormatUint(uint64(h.ID), 10)
		for i := 0; i < h.Len(); i++ {
			row := []string{
				id,
				strconv.Itoa(h.Steps[i]),
				strconv.FormatFloat(h.Xs[i], 'g', -1, 64),
				strconv.FormatFloat(h.Ys[i], 'g', -1, 64),
				strconv.FormatFloat(h.Zs[i], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func (s *FileStore) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *FileStore) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *FileStore) LoadHistories(runID string) ([]*dynamo.History, error) {
	runDir := filepath.Join(s.baseDir, runID)

	data, err := os.ReadFile(filepath.Join(runDir, "lineages.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var lineages []Lineage
	if err := json.Unmarshal(data, &lineages); err != nil {
		return nil, err
	}

	histories := make([]*dynamo.History, len(lineages))
	byID := make(map[dynamo.BodyID]*dynamo.History, len(lineages))
	for i, l := range lineages {
		histories[i] = l.history()
		byID[l.ID] = histories[i]
	}

	f, err := os.Open(filepath.Join(runDir, "histories.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	for line, record := range records {
		if line == 0 {
			continue
		}
		if err := appendSample(byID, record); err != nil {
			return nil, fmt.Errorf("histories.csv line %d: %w", line+1, err)
		}
	}

	return histories, nil
}

func appendSample(byID map[dynamo.BodyID]*dynamo.History, record []string) error {
	if len(record) != 5 {
		return fmt.Errorf("expected 5 fields, got %d", len(record))
	}

	id, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return err
	}
	h, ok := byID[dynamo.BodyID(id)]
	if !ok {
		return fmt.Errorf("sample for unknown body %d", id)
	}

	step, err := strconv.Atoi(record[1])
	if err != nil {
		return err
	}

	var p [3]float64
	for i := range p {
		if p[i], err = strconv.ParseFloat(record[2+i], 64); err != nil {
			return err
		}
	}

	h.Append(step, dynamo.Vec3{X: p[0], Y: p[1], Z: p[2]})
	return nil
}
