package graph

import (
	"context"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// SeedBaseKnowledge populates the portal's standing entities and their
// relationships. Called on first run and after a failed snapshot load.
func (s *Store) SeedBaseKnowledge(ctx context.Context) {
	base := []apptype.KnowledgeNode{
		{
			ID:          "mosdac",
			Type:        "ORGANIZATION",
			Name:        "MOSDAC",
			Description: "Meteorological and Oceanographic Satellite Data Archival Centre",
			Attributes: map[string]string{
				"url":         "https://www.mosdac.gov.in",
				"parent_org":  "ISRO",
				"established": "2008",
			},
		},
		{
			ID:          "satellite_data",
			Type:        "DATA_CATEGORY",
			Name:        "Satellite Data",
			Description: "Earth observation data from various satellites",
		},
		{
			ID:          "oceansat",
			Type:        "SATELLITE",
			Name:        "Oceansat",
			Description: "Indian satellite for ocean and atmospheric studies",
			Attributes: map[string]string{
				"launch_year": "2009",
				"sensors":     "OCM,SCAT,ROSA",
			},
		},
		{
			ID:          "resourcesat",
			Type:        "SATELLITE",
			Name:        "ResourceSat",
			Description: "Indian Earth observation satellite",
			Attributes: map[string]string{
				"sensors": "LISS-III,LISS-IV,AWiFS",
			},
		},
	}

	for _, node := range base {
		s.AddNode(ctx, node)
	}

	s.AddEdge("mosdac", "satellite_data", "provides", nil)
	s.AddEdge("oceansat", "satellite_data", "generates", nil)
	s.AddEdge("resourcesat", "satellite_data", "generates", nil)
	s.AddEdge("satellite_data", "mosdac", "stored_in", nil)

	s.logger.Info("seeded base knowledge graph")
}
