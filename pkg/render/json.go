package render

import (
	"encoding/json"

	"github.com/MusicFlow-app/HandFlow/pkg/tablature"
)

// RenderJSON marshals the tablature as indented JSON. The document is the
// output contract itself, so no separate export shape is needed.
func RenderJSON(doc *tablature.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
