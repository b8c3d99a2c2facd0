package main

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-posttypes/pkg/loader"
)

// scriptedPrompter answers prompts from a queue.
type scriptedPrompter struct {
	inputs   []string
	confirms []bool
	selects  []string
}

func (p *scriptedPrompter) Input(_ context.Context, _, def string, validate func(string) error) (string, error) {
	if len(p.inputs) == 0 {
		return "", errors.New("unexpected input prompt")
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	if answer == "" {
		answer = def
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *scriptedPrompter) Confirm(context.Context, string, bool) (bool, error) {
	if len(p.confirms) == 0 {
		return false, errors.New("unexpected confirm prompt")
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *scriptedPrompter) Select(context.Context, string, []string, string) (string, error) {
	if len(p.selects) == 0 {
		return "", errors.New("unexpected select prompt")
	}
	answer := p.selects[0]
	p.selects = p.selects[1:]
	return answer, nil
}

func TestScaffoldDefinition(t *testing.T) {
	p := &scriptedPrompter{
		inputs:   []string{"book", "Books", "", "book_isbn", "ISBN", "book_notes", "", ""},
		confirms: []bool{true, true, false},
		selects:  []string{"side", "high", "normal", "default"},
	}

	def, err := scaffoldDefinition(context.Background(), p)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	want := loader.TypeDefinition{
		ID:     "book",
		Config: map[string]any{"public": true},
		Labels: map[string]string{"name": "Books"},
		MetaBoxes: []loader.BoxDefinition{
			{ID: "book_isbn", Title: "ISBN", Single: true, Context: "side", Priority: "high"},
			{ID: "book_notes", Context: "normal", Priority: "default"},
		},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestScaffoldRejectsInvalidID(t *testing.T) {
	p := &scriptedPrompter{inputs: []string{"Book Type"}}
	if _, err := scaffoldDefinition(context.Background(), p); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateIdentifier(t *testing.T) {
	validate := validateIdentifier(5)
	for value, ok := range map[string]bool{
		"book":    true,
		"a-b_1":   true,
		"":        false,
		"toolong": false,
		"Book":    false,
	} {
		if err := validate(value); (err == nil) != ok {
			t.Errorf("%q: want ok=%v, got %v", value, ok, err)
		}
	}
	if err := optional(validate)(""); err != nil {
		t.Fatalf("optional must accept empty values")
	}
}
