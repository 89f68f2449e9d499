package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// envelope - форма события на проводе: {"type": TAG, "data": {...}}.
type envelope[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema (stdout when empty)")
	flag.Parse()

	schema, err := buildSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build schema: %v\n", err)
		os.Exit(1)
	}
	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() (*jsonschema.Schema, error) {
	events := jsonschema.Reflector{DoNotReference: true}
	outbound := []*jsonschema.Schema{
		envelopeSchema(&events, event.TagPlayerMove, envelope[event.PlayerMove]{}),
		envelopeSchema(&events, event.TagClientRequireAround, envelope[event.ClientRequireAround]{}),
		envelopeSchema(&events, event.TagClickActionEvent, envelope[event.ClickAction]{}),
		envelopeSchema(&events, event.TagClientRequireResumeText, envelope[event.ClientRequireResumeText]{}),
		envelopeSchema(&events, event.TagClientWantClose, envelope[event.ClientWantClose]{}),
	}
	for _, s := range outbound {
		if s == nil {
			return nil, fmt.Errorf("failed to reflect event envelope")
		}
	}

	// DTO ответов HTTP. Part рекурсивен, поэтому здесь ссылки через $defs.
	dtos := jsonschema.Reflector{}
	defs := jsonschema.Definitions{}
	for _, v := range []any{
		&api.Character{},
		&api.Tile{},
		&api.ZoneSource{},
		&api.Build{},
		&api.Stuff{},
		&api.Resource{},
		&api.Inventory{},
		&api.WorldAsCharacter{},
		&api.Description{},
	} {
		s := dtos.Reflect(v)
		if s == nil {
			return nil, fmt.Errorf("failed to reflect %T", v)
		}
		for name, def := range s.Definitions {
			defs[name] = def
		}
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "rollgui zone protocol",
		Description: "Client to server zone events and the HTTP documents the client reads.",
		OneOf:       outbound,
		Definitions: defs,
	}, nil
}

func envelopeSchema(r *jsonschema.Reflector, tag string, v any) *jsonschema.Schema {
	s := r.Reflect(v)
	if s == nil {
		return nil
	}
	s.Version = ""
	s.Title = tag
	if p, ok := s.Properties.Get("type"); ok {
		p.Const = tag
	}
	return s
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
