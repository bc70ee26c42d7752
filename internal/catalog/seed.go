package catalog

import (
	"time"

	"github.com/sohamroyc/Api-directory/internal/domain"
)

// SourceCurated tags listings shipped with the application.
const SourceCurated = "Curated List"

// Seed returns the built-in catalog used when nothing has been persisted
// yet. All entries share the given creation time.
func Seed(now time.Time) []domain.ApiListing {
	return []domain.ApiListing{
		{
			ID:           "1",
			Name:         "PokeAPI",
			Website:      "https://pokeapi.co/",
			Description:  "A complete RESTful API for Pokémon data.",
			Category:     domain.CategoryEntertainment,
			AuthRequired: false,
			Source:       SourceCurated,
			CreatedAt:    now,
			AISummary:    "An extensive database providing details on every aspect of the Pokémon franchise, from stats to abilities.",
		},
		{
			ID:           "2",
			Name:         "OpenWeatherMap",
			Website:      "https://openweathermap.org/api",
			Description:  "Access current weather data for any location on Earth.",
			Category:     domain.CategoryData,
			AuthRequired: true,
			Source:       SourceCurated,
			CreatedAt:    now,
			AISummary:    "Reliable weather forecasting and historical data available through simple HTTP requests with API key authentication.",
		},
		{
			ID:           "3",
			Name:         "JSONPlaceholder",
			Website:      "https://jsonplaceholder.typicode.com/",
			Description:  "Free to use fake online REST API for testing and prototyping.",
			Category:     domain.CategoryDeveloper,
			AuthRequired: false,
			Source:       SourceCurated,
			CreatedAt:    now,
			AISummary:    "A developer essential for mock data testing without the need for setting up a custom backend environment.",
		},
	}
}
