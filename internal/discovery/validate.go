package discovery

import (
	_ "embed" // For embed functionality.
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation is returned from validate if the document doesn't
// conform to the discover response schema.
var ErrSchemaViolation = errors.New("schema violation")

//go:embed schema.json
var schema []byte

var schemaLoader = gojsonschema.NewBytesLoader(schema)

// validate returns nil if document conforms to schema.json. On a violation
// the returned strings list every problem found.
func validate(document []byte) ([]string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed while validating: %w", err)
	}
	if len(result.Errors()) > 0 {
		formatted := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			formatted[i] = fmt.Sprintf("%d: %s", i, e.String())
		}
		return formatted, ErrSchemaViolation
	}
	return nil, nil
}
