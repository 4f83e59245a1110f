package services

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/inaiurai/commissionbot/internal/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// EmbedValidator checks stored embed documents against schemas/stored_embed.json.
type EmbedValidator struct {
	schema *jsonschema.Schema
}

func NewEmbedValidator() (*EmbedValidator, error) {
	data, err := schemaFS.ReadFile("schemas/stored_embed.json")
	if err != nil {
		return nil, fmt.Errorf("read embed schema: %w", err)
	}
	schema, err := jsonschema.CompileString("https://inaiurai.dev/schemas/stored_embed.json", string(data))
	if err != nil {
		return nil, fmt.Errorf("compile embed schema: %w", err)
	}
	return &EmbedValidator{schema: schema}, nil
}

// Validate performs hard reject: an embed that does not match the schema is an error.
func (v *EmbedValidator) Validate(e *models.StoredEmbed) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ErrValidation can be used with errors.Is to detect rejected user input.
var ErrValidation = errors.New("validation failed")
