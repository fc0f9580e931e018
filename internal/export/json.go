package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/storage"
)

type ExportData struct {
	Run       storage.RunMetadata `json:"run"`
	Histories []*dynamo.History   `json:"histories"`
}

// WriteJSON writes a run and its histories as indented JSON.
func WriteJSON(w io.Writer, meta storage.RunMetadata, histories []*dynamo.History) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Histories: histories})
}
