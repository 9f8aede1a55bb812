package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/task-cli/internal/model"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "task-cli.schema.json"

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// Check validates the raw document and returns one line per problem.
// A missing document has no problems; an undecodable one has exactly one.
func (s *Store) Check() ([]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return []string{"document is not valid JSON: " + err.Error()}, nil
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var problems []string
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validate: %w", err)
		}
		problems = collectProblems(problems, ve)
	}

	// Rules the schema cannot express.
	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err == nil {
		problems = append(problems, duplicateIDs(tasks)...)
	} else if len(problems) == 0 {
		problems = append(problems, "document does not decode as tasks: "+err.Error())
	}

	sort.Strings(problems)
	return problems, nil
}

func collectProblems(out []string, ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		path := pointerToPath(ve.InstanceLocation)
		if path == "" {
			return append(out, ve.Message)
		}
		return append(out, path+": "+ve.Message)
	}
	for _, cause := range ve.Causes {
		out = collectProblems(out, cause)
	}
	return out
}

func duplicateIDs(tasks []model.Task) []string {
	seen := make(map[int]int, len(tasks))
	var out []string
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			out = append(out, fmt.Sprintf("tasks[%d].id: duplicate id %d (first at tasks[%d])", i, t.ID, first))
			continue
		}
		seen[t.ID] = i
	}
	return out
}

// pointerToPath turns "/0/status" into "tasks[0].status".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	path := "tasks"
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		path += "." + part
	}
	return path
}
