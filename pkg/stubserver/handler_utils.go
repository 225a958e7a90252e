package stubserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// BoolFromQuery extracts a query string value and converts it to a bool
func BoolFromQuery(r *http.Request, param string) (bool, error) {
	p := r.URL.Query().Get(param)
	if p != "" {
		return strconv.ParseBool(p)
	}
	return false, nil
}

// EncodeJSON encodes data into JSON and writes it to the response writer.
func EncodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// PropertiesFromQuery decodes the JSON "properties" query parameter. Values
// are flattened to strings the way the server reads them.
func PropertiesFromQuery(r *http.Request) (map[string]string, error) {
	raw := r.URL.Query().Get("properties")
	out := map[string]string{}
	if raw == "" {
		return out, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}
	for k, v := range decoded {
		switch val := v.(type) {
		case string:
			out[k] = val
		default:
			b, _ := json.Marshal(val)
			out[k] = string(b)
		}
	}
	return out, nil
}

func readBody(r *http.Request) (string, error) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RenderError renders an error response.
func RenderError(w http.ResponseWriter, err error, status int) {
	if status != http.StatusNotFound {
		log.Error(err)
	}
	http.Error(w, err.Error(), status)
}
