package domain

// Tour is the listing-level view of a tour.
type Tour struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Stops       int     `json:"stops"`
	Distance    string  `json:"distance"`
	CoverImage  *string `json:"coverImage"`
}

// TourStop is one point of interest in a tour's ordered sequence.
type TourStop struct {
	ID          string  `json:"id"`
	Order       int     `json:"order"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Fact is a short extra read out on demand at a stop.
type Fact struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type TourRoute struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// TourDetails is the full tour content: ordered stops, the walking route,
// pre-authored narration text per style and fun facts per stop.
type TourDetails struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Stops       []TourStop `json:"stops"`
	Route       TourRoute  `json:"route"`

	Narrations map[string]map[NarrationStyle]string `json:"-"`
	Facts      map[string][]Fact                    `json:"-"`
}
