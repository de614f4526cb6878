package tours

import "github.com/tourandot/server/internal/domain"

func distanceOf(d *domain.TourDetails) string {
	switch d.ID {
	case "1":
		return "3.2 km"
	case "2":
		return "2.1 km"
	}
	return ""
}

// seedTours holds the launch content. Replaced by an editorial pipeline
// eventually; kept in code so the server has no startup dependencies.
func seedTours() []*domain.TourDetails {
	downtown := &domain.TourDetails{
		ID:          "1",
		Title:       "Historic Downtown Walk",
		Description: "Explore the heart of the city with stories from the past",
		Duration:    "2 hours",
		Stops: []domain.TourStop{
			{ID: "stop-1", Order: 1, Title: "City Hall", Description: "The historic seat of local government"},
			{ID: "stop-2", Order: 2, Title: "Old Market Square", Description: "Where merchants have gathered for centuries"},
			{ID: "stop-3", Order: 3, Title: "Clock Tower", Description: "The city's timekeeper since 1887"},
			{ID: "stop-4", Order: 4, Title: "Merchant's Guild House", Description: "Seat of the trading families that built the town"},
			{ID: "stop-5", Order: 5, Title: "Cathedral Steps", Description: "A gothic landmark and favorite meeting point"},
			{ID: "stop-6", Order: 6, Title: "River Gate", Description: "The last surviving piece of the medieval wall"},
			{ID: "stop-7", Order: 7, Title: "Printer's Alley", Description: "Home of the first newspaper in the region"},
			{ID: "stop-8", Order: 8, Title: "Harbor Overlook", Description: "Where the old town meets the water"},
		},
		Narrations: map[string]map[domain.NarrationStyle]string{
			"stop-1": {
				domain.StyleQuick:    "City Hall, built in 1852, still houses the city council.",
				domain.StyleBalanced: "City Hall has anchored civic life here since 1852. Its bell once called citizens to public assemblies, and the council still meets under the original roof.",
				domain.StyleVerbose:  "Completed in 1852 after a decade of construction, City Hall replaced a wooden predecessor lost to fire. Its bell tower called citizens to assemblies, announced markets and warned of floods. Walk around the east face and you can still see the mason's marks left by the guild crews who raised it.",
			},
			"stop-2": {
				domain.StyleQuick:    "Old Market Square has hosted traders for over four centuries.",
				domain.StyleBalanced: "Merchants have gathered on Old Market Square for more than four hundred years. The cobblestones you stand on were laid over the original medieval paving.",
				domain.StyleVerbose:  "For over four centuries Old Market Square has been the commercial heart of the city. Under the current cobblestones lies the original medieval paving, and the iron rings on the north wall once tethered livestock on market days. The fountain at the center arrived in 1790, a gift from the wool traders' guild.",
			},
		},
		Facts: map[string][]domain.Fact{
			"stop-1": {
				{ID: "fact-1", Text: "The City Hall bell cracked in 1904 and was recast from the same bronze."},
				{ID: "fact-2", Text: "The mayor's office still uses a desk from the founding era."},
			},
			"stop-2": {
				{ID: "fact-1", Text: "The square's fountain ran with wine once a year until 1820."},
			},
		},
	}

	riverside := &domain.TourDetails{
		ID:          "2",
		Title:       "Riverside at Dusk",
		Description: "A shorter evening stroll along the waterfront",
		Duration:    "1 hour",
		Stops: []domain.TourStop{
			{ID: "stop-1", Order: 1, Title: "Ferry Landing", Description: "Gateway to the river trade"},
			{ID: "stop-2", Order: 2, Title: "Boathouse Row", Description: "Victorian boathouses still in use"},
			{ID: "stop-3", Order: 3, Title: "Lantern Bridge", Description: "Lit every evening since 1901"},
		},
		Narrations: map[string]map[domain.NarrationStyle]string{
			"stop-1": {
				domain.StyleQuick:    "Ferry Landing moved passengers and cargo for two hundred years.",
				domain.StyleBalanced: "Ferry Landing was the city's front door for two hundred years, moving passengers and cargo until the first bridge opened upstream.",
				domain.StyleVerbose:  "Before any bridge crossed the river, Ferry Landing was the city's front door. For two hundred years flat-bottomed ferries moved passengers, mail and cargo from this slip. The timber pilings visible at low water are original, preserved by the river mud.",
			},
		},
		Facts: map[string][]domain.Fact{
			"stop-3": {
				{ID: "fact-1", Text: "The bridge lamps were converted to gas, then electric, without ever going dark."},
			},
		},
	}

	return []*domain.TourDetails{downtown, riverside}
}
