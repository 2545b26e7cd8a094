package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spacetime/internal/spacetime"
)

type ExportBody struct {
	Name    string       `json:"name,omitempty"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	VX      float64      `json:"vx"`
	VY      float64      `json:"vy"`
	Mass    float64      `json:"mass"`
	Density float64      `json:"density"`
	Focus   bool         `json:"focus,omitempty"`
	Path    [][2]float64 `json:"path,omitempty"`
}

type ExportData struct {
	Meta   RunMetadata  `json:"meta"`
	Bodies []ExportBody `json:"bodies"`
}

func NewExportData(meta RunMetadata, bodies []spacetime.Body) ExportData {
	data := ExportData{Meta: meta, Bodies: make([]ExportBody, len(bodies))}
	data.Meta.Bodies = len(bodies)
	for i, b := range bodies {
		eb := ExportBody{
			Name: b.Name,
			X:    b.Position.X, Y: b.Position.Y,
			VX: b.Velocity.X, VY: b.Velocity.Y,
			Mass: b.Mass, Density: b.Density,
			Focus: b.Focus,
		}
		for _, p := range b.Path {
			eb.Path = append(eb.Path, [2]float64{p.X, p.Y})
		}
		data.Bodies[i] = eb
	}
	return data
}

// WriteJSON encodes a snapshot, trails included, as indented JSON.
func WriteJSON(w io.Writer, meta RunMetadata, bodies []spacetime.Body) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, bodies))
}

func ExportJSON(path string, meta RunMetadata, bodies []spacetime.Body) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, bodies)
}
