package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/chemscene/internal/scene"
)

// WriteScene encodes a description as indented JSON.
func WriteScene(w io.Writer, d *scene.Description) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

// SceneJSON writes a description to path.
func SceneJSON(path string, d *scene.Description) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteScene(file, d); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
