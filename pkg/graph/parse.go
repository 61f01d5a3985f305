package graph

import (
	"regexp"
	"strings"
)

// ParsedEntity is an entity candidate parsed from the semi-structured
// extraction output, before identifiers and document ownership are assigned.
type ParsedEntity struct {
	Name        string
	Type        string
	Description string
}

// ParsedRelationship is a relationship candidate whose endpoints are still
// raw names. Endpoints resolve against entities of the same extraction pass
// only; candidates naming anything else are dropped during processing.
type ParsedRelationship struct {
	SourceName  string
	Type        string
	TargetName  string
	Description string
}

var (
	entityLineRe   = regexp.MustCompile(`^-\s*\[([^\]]+)\]\s*([^:]+):\s*(.+)$`)
	relationLineRe = regexp.MustCompile(`^-\s*(.+?)\s*->\s*(.+?)\s*->\s*([^:]+):\s*(.+)$`)
)

// parseExtraction walks the generation output line by line, tracking the
// current section toggled by the ENTITIES: and RELATIONSHIPS: markers
// (case-insensitive substring match). Lines matching neither the section
// markers nor the section's line grammar are skipped, never an error.
func parseExtraction(output string) ([]ParsedEntity, []ParsedRelationship) {
	entities := make([]ParsedEntity, 0)
	relationships := make([]ParsedRelationship, 0)

	const (
		sectionNone = iota
		sectionEntities
		sectionRelationships
	)
	section := sectionNone

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		if strings.Contains(upper, "RELATIONSHIPS:") {
			section = sectionRelationships
			continue
		}
		if strings.Contains(upper, "ENTITIES:") {
			section = sectionEntities
			continue
		}

		switch section {
		case sectionEntities:
			m := entityLineRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			entities = append(entities, ParsedEntity{
				Type:        strings.TrimSpace(m[1]),
				Name:        strings.TrimSpace(m[2]),
				Description: strings.TrimSpace(m[3]),
			})
		case sectionRelationships:
			m := relationLineRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			relationships = append(relationships, ParsedRelationship{
				SourceName:  strings.TrimSpace(m[1]),
				Type:        strings.TrimSpace(m[2]),
				TargetName:  strings.TrimSpace(m[3]),
				Description: strings.TrimSpace(m[4]),
			})
		}
	}

	return entities, relationships
}
