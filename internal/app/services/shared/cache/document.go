package cache

import (
	"bytes"
	"errors"
	"fauxhr-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var ErrInvalidDocument = errors.New("cached document is not valid JSON")

// PrepareDocument sets meta.source on a FHIR resource and renders it with a
// two space indent, falling back to compact output.
func PrepareDocument(raw []byte, source string) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var document map[string]interface{}
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}

	meta, ok := document["meta"].(map[string]interface{})
	if !ok {
		meta = map[string]interface{}{}
	}
	meta["source"] = source
	document["meta"] = meta

	pretty, err := json.MarshalIndent(document, "", "  ")
	if err == nil {
		return pretty, nil
	}
	return json.Marshal(document)
}

// LastUpdatedOf returns meta.lastUpdated, or nil when the document has none.
func LastUpdatedOf(document []byte) (*time.Time, error) {
	if !gjson.ValidBytes(document) {
		return nil, ErrInvalidDocument
	}
	lastUpdated := gjson.GetBytes(document, "meta.lastUpdated")
	if !lastUpdated.Exists() {
		return nil, nil
	}
	parsed, ok := utils.ParseFhirDateTime(lastUpdated.String())
	if !ok {
		return nil, nil
	}
	return &parsed, nil
}
