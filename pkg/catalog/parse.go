package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema/catalog.schema.json
var catalogSchemaJSON string

const catalogSchemaURL = "https://avdesign.schemas.local/catalog.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(catalogSchemaURL, bytes.NewReader([]byte(catalogSchemaJSON))); err != nil {
			schemaErr = fmt.Errorf("catalog schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(catalogSchemaURL)
	})
	return compiledSchema, schemaErr
}

// Parse decodes, validates and indexes a catalog document. JSON and YAML
// are both accepted. Every problem found is reported in a single *LoadError.
func Parse(data []byte) (*Snapshot, error) {
	raw, err := toJSON(data)
	if err != nil {
		return nil, &LoadError{Issues: []string{err.Error()}}
	}

	schema, err := catalogSchema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, &LoadError{Issues: []string{fmt.Sprintf("decode: %v", err)}}
	}
	if err := schema.Validate(generic); err != nil {
		lerr := &LoadError{}
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			collectSchemaIssues(lerr, verr)
		} else {
			lerr.add("schema: %v", err)
		}
		return nil, lerr
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Issues: []string{fmt.Sprintf("decode: %v", err)}}
	}
	return NewSnapshot(doc)
}

// toJSON returns data as JSON bytes, converting from YAML when needed.
func toJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty catalog document")
	}
	if trimmed[0] == '{' {
		return trimmed, nil
	}
	var v any
	if err := yaml.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml to json: %w", err)
	}
	return out, nil
}

func collectSchemaIssues(lerr *LoadError, verr *jsonschema.ValidationError) {
	if len(verr.Causes) == 0 {
		loc := verr.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		lerr.add("%s: %s", loc, verr.Message)
		return
	}
	for _, c := range verr.Causes {
		collectSchemaIssues(lerr, c)
	}
}

// NewSnapshot runs semantic validation over doc and builds the immutable
// index. It does not apply the JSON Schema; use Parse for raw input.
func NewSnapshot(doc Document) (*Snapshot, error) {
	lerr := &LoadError{}

	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		lerr.add("version %q is not semver: %v", doc.Version, err)
	}

	products := make([]Product, 0, len(doc.Products))
	index := make(map[string]int, len(doc.Products))
	for i, p := range doc.Products {
		p = p.Clone()
		p.SKU = NormalizeSKU(p.SKU)
		switch {
		case p.SKU == "":
			lerr.add("products[%d]: missing sku", i)
			continue
		case p.Name == "":
			lerr.add("products[%d] %s: missing name", i, p.SKU)
		case p.Category == "":
			lerr.add("products[%d] %s: missing category", i, p.SKU)
		}
		if p.DealerPrice < 0 || p.MSRP < 0 {
			lerr.add("products[%d] %s: negative price", i, p.SKU)
		}
		if p.AVoIP != nil && !slices.Contains(ValidSeries, p.AVoIP.Series) {
			lerr.add("products[%d] %s: unknown avoip series %d", i, p.SKU, p.AVoIP.Series)
		}
		if p.AVoIP != nil {
			switch p.AVoIP.Multiview {
			case "", MultiviewNative, MultiviewRequiresSwitcher:
			default:
				lerr.add("products[%d] %s: unknown multiview mode %q", i, p.SKU, p.AVoIP.Multiview)
			}
		}
		if prev, dup := index[p.SKU]; dup {
			lerr.add("products[%d]: duplicate sku %s (first at products[%d])", i, p.SKU, prev)
			continue
		}
		for j, t := range p.Tags {
			p.Tags[j] = normalizeTag(t)
		}
		for j, r := range p.CompatibleReceivers {
			p.CompatibleReceivers[j] = NormalizeSKU(r)
		}
		for j, k := range p.KitContents {
			p.KitContents[j] = NormalizeSKU(k)
		}
		index[p.SKU] = len(products)
		products = append(products, p)
	}

	tasks := make([]InstallationTask, 0, len(doc.Tasks))
	seenTasks := make(map[string]bool, len(doc.Tasks))
	for i, t := range doc.Tasks {
		switch {
		case t.ID == "":
			lerr.add("tasks[%d]: missing id", i)
			continue
		case seenTasks[t.ID]:
			lerr.add("tasks[%d]: duplicate id %s", i, t.ID)
			continue
		case t.Hours < 0:
			lerr.add("tasks[%d] %s: negative hours", i, t.ID)
		}
		seenTasks[t.ID] = true
		t.AppliesTo = slices.Clone(t.AppliesTo)
		for j, tag := range t.AppliesTo {
			t.AppliesTo[j] = normalizeTag(tag)
		}
		tasks = append(tasks, t)
	}

	if err := lerr.orNil(); err != nil {
		return nil, err
	}
	return newSnapshot(version, products, index, tasks)
}
