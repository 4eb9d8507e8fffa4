package tracking

import (
	"context"
	"errors"
	"testing"
)

func TestDefaultContract_ResolvesLookupPath(t *testing.T) {
	contract, err := DefaultContract()
	if err != nil {
		t.Fatalf("default contract: %v", err)
	}
	if got := contract.Path("AB 12"); got != "/orders/track/AB%2012" {
		t.Fatalf("unexpected path: %q", got)
	}
	if got := contract.Method(); got != "GET" {
		t.Fatalf("unexpected method: %q", got)
	}
}

func TestContract_Validate(t *testing.T) {
	contract, err := DefaultContract()
	if err != nil {
		t.Fatalf("default contract: %v", err)
	}

	valid := []byte(`{"status":"ok","svg":null,"form_fields":[{"id":"a","defaultValue":3,"options":[{"value":3,"label":"Three"}]}],"test":true}`)
	if err := contract.Validate(valid); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	for name, payload := range map[string]string{
		"not json":       `<html>`,
		"missing status": `{"form_fields":[]}`,
		"field id type":  `{"status":"ok","form_fields":[{"id":7}]}`,
	} {
		if err := contract.Validate([]byte(payload)); !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("%s: expected ErrInvalidResponse, got %v", name, err)
		}
	}
}

func TestLoadContract_RequiresOperation(t *testing.T) {
	doc := []byte(`
openapi: 3.0.3
info: {title: Other, version: "1"}
paths:
  /orders/{id}:
    get:
      operationId: getOrder
      parameters:
        - {name: id, in: path, required: true, schema: {type: string}}
      responses:
        "200": {description: ok}
`)
	if _, err := LoadContract(context.Background(), doc); err == nil {
		t.Fatalf("expected missing operation error")
	}
	if _, err := LoadContract(context.Background(), nil); err == nil {
		t.Fatalf("expected empty document error")
	}
}
