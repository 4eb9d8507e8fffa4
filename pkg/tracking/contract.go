package tracking

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// OperationID names the lookup operation inside the API contract.
const OperationID = "trackOrder"

const idPathParam = "{trackingId}"

//go:embed api/tracking.yaml
var embeddedContract []byte

var (
	defaultContractOnce sync.Once
	defaultContract     *Contract
	defaultContractErr  error
)

// Contract is the parsed tracking API description.
type Contract struct {
	path   string
	method string
	schema *openapi3.Schema
}

// DefaultContract returns the embedded contract, parsed once.
func DefaultContract() (*Contract, error) {
	defaultContractOnce.Do(func() {
		defaultContract, defaultContractErr = LoadContract(context.Background(), embeddedContract)
	})
	return defaultContract, defaultContractErr
}

// LoadContract parses an OpenAPI document and locates the trackOrder
// operation together with its 200 response schema.
func LoadContract(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("tracking contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("tracking contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("tracking contract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("tracking contract: document does not contain any paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID != OperationID {
				continue
			}
			if !strings.Contains(path, idPathParam) {
				return nil, fmt.Errorf("tracking contract: path %q does not carry %s", path, idPathParam)
			}
			return &Contract{
				path:   path,
				method: strings.ToUpper(method),
				schema: responseSchema(op.Responses),
			}, nil
		}
	}
	return nil, fmt.Errorf("tracking contract: operation %q not found", OperationID)
}

func responseSchema(responses *openapi3.Responses) *openapi3.Schema {
	if responses == nil || responses.Len() == 0 {
		return nil
	}
	ref, ok := responses.Map()["200"]
	if !ok || ref == nil || ref.Value == nil {
		return nil
	}
	media := ref.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

// Method returns the HTTP method of the lookup operation.
func (c *Contract) Method() string {
	if c == nil || c.method == "" {
		return "GET"
	}
	return c.method
}

// Path expands the lookup path for id. The identifier is path escaped.
func (c *Contract) Path(id string) string {
	if c == nil {
		return ""
	}
	return strings.ReplaceAll(c.path, idPathParam, url.PathEscape(id))
}

// Validate checks a raw response body against the 200 response schema.
// Contracts without a schema accept any JSON document.
func (c *Contract) Validate(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if c == nil || c.schema == nil {
		return nil
	}
	if err := c.schema.VisitJSON(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
