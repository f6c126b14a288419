package ocr

import (
	"encoding/json"
	"fmt"
	"time"
)

// DataFormatText asks the API for plain text output.
const DataFormatText = "text"

// Options configures the recognition performed by the API.
type Options struct {
	DataFormat string `json:"data.format"`
}

// Request is the body of a recognition call.
type Request struct {
	Base64  string  `json:"base64"`
	Options Options `json:"options"`
}

// NewRequest builds a plain-text recognition request for an encoded image.
func NewRequest(b64 string) Request {
	return Request{
		Base64:  b64,
		Options: Options{DataFormat: DataFormatText},
	}
}

// Response is the decoded API answer. Data is the only field ocrclip
// interprets; every other top-level field is kept verbatim in Extra.
type Response struct {
	// Data is the recognized text, nil when the API sent null or omitted it.
	Data *string

	// Extra holds implementation-specific fields such as codes or timings.
	Extra map[string]json.RawMessage
}

// UnmarshalJSON accepts any JSON object whose "data" member is a string or null.
func (r *Response) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("response is null, want an object")
	}

	r.Data = nil
	if raw, ok := fields["data"]; ok {
		var data *string
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("field \"data\": %w", err)
		}
		r.Data = data
		delete(fields, "data")
	}

	r.Extra = fields
	return nil
}

// MarshalJSON writes Data back alongside Extra.
func (r Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["data"] = r.Data
	return json.Marshal(out)
}

// Result contains a recognized text with metadata about the run.
type Result struct {
	// Text is the recognized text.
	Text string `json:"text"`

	// Extra carries the additional fields returned by the API.
	Extra map[string]json.RawMessage `json:"extra,omitempty"`

	// ImageSize is the size of the source image in bytes.
	ImageSize int64 `json:"image_size"`

	// ProcessedAt is the timestamp when the API answered.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration covers encoding and the HTTP round trip.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
