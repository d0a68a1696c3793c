package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RelationshipGroup holds the targets of one relation IRI split by direction.
type RelationshipGroup struct {
	Outgoing []string `json:"outgoing"`
	Incoming []string `json:"incoming"`
}

// EntityContext is the merged view of one entity: its properties, its
// relationships grouped by relation IRI, allow-listed metadata, and optional
// provenance lineage.
type EntityContext struct {
	Entity        string                       `json:"entity"`
	Properties    map[string][]string          `json:"properties"`
	Relationships map[string]RelationshipGroup `json:"relationships"`
	Metadata      map[string]string            `json:"metadata"`
	Provenance    map[string]any               `json:"provenance"`
	Timestamp     time.Time                    `json:"timestamp"`
}

// ContextOptions selects which sections of the context to populate.
type ContextOptions struct {
	IncludeRelationships bool `json:"includeRelationships"`
	IncludeMetadata      bool `json:"includeMetadata"`
	IncludeProvenance    bool `json:"includeProvenance"`
}

// DefaultContextOptions enables every section.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		IncludeRelationships: true,
		IncludeMetadata:      true,
		IncludeProvenance:    true,
	}
}

// ExtractContext gathers the context of one entity. Provenance lookup
// failures are logged and leave Provenance nil; they never fail the call.
func (e *Engine) ExtractContext(ctx context.Context, entityURI string, opts ContextOptions) (*EntityContext, error) {
	ec := &EntityContext{
		Entity:        entityURI,
		Properties:    make(map[string][]string),
		Relationships: make(map[string]RelationshipGroup),
		Metadata:      make(map[string]string),
		Timestamp:     time.Now().UTC(),
	}
	params := map[string]string{"entity": entityURI}

	rows, err := e.selectRows(ctx, RenderTemplate(TemplateEntityProperties, params))
	if err != nil {
		return nil, fmt.Errorf("extract context for %s: %w", entityURI, err)
	}
	for _, row := range rows {
		prop := row["property"]
		ec.Properties[prop] = append(ec.Properties[prop], row["value"])
	}

	if opts.IncludeRelationships {
		rows, err := e.selectRows(ctx, RenderTemplate(TemplateEntityRelationships, params))
		if err != nil {
			return nil, fmt.Errorf("extract relationships for %s: %w", entityURI, err)
		}
		for _, row := range rows {
			group := ec.Relationships[row["relation"]]
			if row["direction"] == "incoming" {
				group.Incoming = append(group.Incoming, row["target"])
			} else {
				group.Outgoing = append(group.Outgoing, row["target"])
			}
			ec.Relationships[row["relation"]] = group
		}
	}

	if opts.IncludeMetadata {
		rows, err := e.selectRows(ctx, RenderTemplate(TemplateEntityMetadata, params))
		if err != nil {
			return nil, fmt.Errorf("extract metadata for %s: %w", entityURI, err)
		}
		for _, row := range rows {
			ec.Metadata[row["property"]] = row["value"]
		}
	}

	if opts.IncludeProvenance && e.opts.EnableProvenance && e.prov != nil {
		lineage, err := e.prov.Lineage(ctx, entityURI)
		if err != nil {
			e.logger.Warn("Provenance lookup failed",
				slog.String("entity", entityURI),
				slog.String("error", err.Error()))
		} else {
			ec.Provenance = lineage
		}
	}

	return ec, nil
}
