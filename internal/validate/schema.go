package validate

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/spell-dataset.schema.json
var datasetSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// schema returns the compiled dataset schema.
func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("spell-dataset.schema.json", bytes.NewReader(datasetSchema)); err != nil {
			compileErr = fmt.Errorf("failed to load dataset schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("spell-dataset.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile dataset schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// checkShape validates doc against the dataset schema and returns one
// violation per leaf schema error.
func checkShape(doc any) ([]Violation, error) {
	s, err := schema()
	if err != nil {
		return nil, err
	}

	err = s.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("failed to validate dataset: %w", err)
	}

	var out []Violation
	for _, leaf := range leaves(verr) {
		out = append(out, shapeViolation(doc, leaf))
	}
	return out, nil
}

// leaves flattens a validation error tree to the errors that carry the
// actual failures.
func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// shapeViolation maps an instance location such as "/3/level" to the
// record it belongs to.
func shapeViolation(doc any, e *jsonschema.ValidationError) Violation {
	v := Violation{Message: e.Message}

	parts := strings.Split(strings.TrimPrefix(e.InstanceLocation, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return v
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return v
	}
	v.Index = idx + 1
	if records, ok := doc.([]any); ok && idx < len(records) {
		v.ID = recordID(records[idx])
	}
	if len(parts) > 1 {
		v.Field = parts[1]
	}
	return v
}
