package playlist

// Payload is the inbound playlist submission pushed by the frontend.
// All fields are optional; the bridge renders placeholders where needed.
type Payload struct {
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	City          string  `json:"city,omitempty"`
	TravelType    string  `json:"travelType,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	PageURL       string  `json:"pageUrl,omitempty"`
	RelatedVenues []Place `json:"relatedVenues,omitempty"`
	RelatedRoutes []Place `json:"relatedRoutes,omitempty"`
}

// Place is a venue or route entry. The upstream data source is inconsistent
// about which field carries the map link, so every known variant is captured
// and MapLink picks the first non-empty one in a fixed priority order.
type Place struct {
	Name          string `json:"name"`
	MapURL        string `json:"mapUrl,omitempty"`
	MapURLSnake   string `json:"map_url,omitempty"`
	GoogleMapsURL string `json:"googleMapsUrl,omitempty"`
	MapsLink      string `json:"mapsLink,omitempty"`
	Link          string `json:"link,omitempty"`
}

// MapLink returns the place's map link, checking the alternate field names
// in priority order, or "" when none is set.
func (p Place) MapLink() string {
	for _, v := range []string{p.MapURL, p.MapURLSnake, p.GoogleMapsURL, p.MapsLink, p.Link} {
		if v != "" {
			return v
		}
	}
	return ""
}
