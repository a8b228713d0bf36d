package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBaseURL = "https://ndn-sim.github.io/tracecheck/schemas/"

type artifactSchemas struct {
	delay *jsonschema.Schema
	cdf   *jsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (*artifactSchemas, error) {
	delay, err := compileSchema("delay.schema.json")
	if err != nil {
		return nil, err
	}
	cdf, err := compileSchema("cdf.schema.json")
	if err != nil {
		return nil, err
	}
	return &artifactSchemas{delay: delay, cdf: cdf}, nil
})

func compileSchema(name string) (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	url := schemaBaseURL + name
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

func validateAgainstSchema(schema *jsonschema.Schema, raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return schema.Validate(payload)
}

// ValidateDelays checks a delay artifact against its schema.
func ValidateDelays(raw []byte) error {
	s, err := loadSchemas()
	if err != nil {
		return err
	}
	if err := validateAgainstSchema(s.delay, raw); err != nil {
		return fmt.Errorf("delay artifact: %w", err)
	}
	return nil
}

// ValidateCDF checks a CDF artifact against its schema.
func ValidateCDF(raw []byte) error {
	s, err := loadSchemas()
	if err != nil {
		return err
	}
	if err := validateAgainstSchema(s.cdf, raw); err != nil {
		return fmt.Errorf("cdf artifact: %w", err)
	}
	return nil
}
