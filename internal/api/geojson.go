package api

import (
	"github.com/mr1hm/go-disaster-hub/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(markers []models.EventMarker) FeatureCollection {
	features := make([]Feature, 0, len(markers))

	for _, m := range markers {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{m.Coordinates.Longitude, m.Coordinates.Latitude},
			},
			Properties: map[string]any{
				"name":      m.Name,
				"category":  m.Category.String(),
				"date":      m.Date,
				"magnitude": m.Magnitude,
				"color":     m.Color,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
