package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fxamacker/cbor/v2"
	"github.com/munnerz/goautoneg"
	"gopkg.in/yaml.v3"
)

// Response media types, in order of preference
const (
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
	contentTypeCBOR = "application/cbor"
	contentTypeText = "text/plain; charset=utf-8"
)

var offeredTypes = []string{contentTypeJSON, contentTypeYAML, contentTypeCBOR}

// negotiate picks the response media type from the Accept header. Anything
// unrecognized gets JSON.
func negotiate(r *http.Request) string {
	if chosen := goautoneg.Negotiate(r.Header.Get("Accept"), offeredTypes); chosen != "" {
		return chosen
	}
	return contentTypeJSON
}

// render encodes body in the negotiated media type and writes it with status
func render(w http.ResponseWriter, r *http.Request, status int, body interface{}) error {
	contentType := negotiate(r)

	data, err := encode(contentType, body)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

func encode(contentType string, body interface{}) ([]byte, error) {
	switch contentType {
	case contentTypeYAML:
		return yaml.Marshal(body)
	case contentTypeCBOR:
		return cbor.Marshal(body)
	case contentTypeJSON:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}
