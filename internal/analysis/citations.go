package analysis

import (
	"encoding/json"

	"google.golang.org/genai"
)

// Citations collects the web sources from grounding metadata. Chunks
// without a web source are skipped. A nil container yields an empty,
// non-nil slice.
func Citations(gm *genai.GroundingMetadata) []Citation {
	out := []Citation{}
	if gm == nil {
		return out
	}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, Citation{Title: chunk.Web.Title, URL: chunk.Web.URI})
	}
	return out
}

// CitationsFromJSON decodes grounding metadata serialized in the Gemini
// wire format. Empty or malformed input yields an empty slice.
func CitationsFromJSON(data []byte) []Citation {
	if len(data) == 0 {
		return []Citation{}
	}
	var gm genai.GroundingMetadata
	if err := json.Unmarshal(data, &gm); err != nil {
		return []Citation{}
	}
	return Citations(&gm)
}
