package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"moto-route-service/internal/adapters/cache"
	"moto-route-service/internal/adapters/gmaps"
	"moto-route-service/internal/adapters/llm"
	"moto-route-service/internal/api"
	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/platform/db"
	"moto-route-service/internal/ports"
	"moto-route-service/internal/services"
)

// Built-in fallback catalog for region context when reverse geocoding is
// unavailable.
var ridingRegions = []domain.Region{
	{Name: "Veluwe, Gelderland, Netherlands", Center: domain.LatLng{Lat: 52.25, Lng: 5.83}},
	{Name: "South Limburg, Netherlands", Center: domain.LatLng{Lat: 50.86, Lng: 5.91}},
	{Name: "Eifel, Germany", Center: domain.LatLng{Lat: 50.37, Lng: 6.87}},
	{Name: "Ardennes, Belgium", Center: domain.LatLng{Lat: 50.25, Lng: 5.67}},
	{Name: "Black Forest, Germany", Center: domain.LatLng{Lat: 48.27, Lng: 8.18}},
}

// main is the application composition root.
// It wires concrete adapters (Google Maps, Claude, Postgres, Redis)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(mapsKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if strings.TrimSpace(anthropicKey) == "" {
		log.Fatal("ANTHROPIC_API_KEY is required")
	}

	rules := config.DefaultRules()
	if rulesPath := os.Getenv("RULES_PATH"); rulesPath != "" {
		var err error
		rules, err = config.LoadRules(rulesPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("loaded rules overrides from %s", rulesPath)
	}

	mapsClient, err := gmaps.NewClient(mapsKey)
	if err != nil {
		log.Fatal(err)
	}

	// Persistent elevation cache is optional: without DATABASE_URL every
	// elevation lookup goes to the API.
	var elevationCache *cache.SQLElevationCache
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		sqlDB, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := cache.InitSchema(sqlDB); err != nil {
			log.Fatal(err)
		}
		elevationCache = cache.NewSQLElevationCache(sqlDB)
	} else {
		log.Println("DATABASE_URL not set, elevation caching disabled")
	}

	// Same for the Redis places cache.
	var places ports.PlacesProvider = gmaps.NewPlacesProvider(mapsClient)
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		places = cache.NewRedisPlacesCache(places, rdb)
	} else {
		log.Println("REDIS_ADDR not set, places caching disabled")
	}

	llmClient := llm.NewClient(anthropicKey, os.Getenv("ROUTE_MODEL"))

	pipeline := services.NewPipeline(rules, services.PipelineDeps{
		Elevations: gmaps.NewElevationProvider(mapsClient, elevationCache),
		Places:     places,
		Selector:   llm.NewSelector(llmClient),
		Directions: gmaps.NewDirectionsProvider(mapsClient),
		Narrator:   llm.NewNarrator(llmClient),
		StreetView: gmaps.NewStreetViewProvider(mapsClient),
		Geocoder:   gmaps.NewGeocoder(mapsClient),
		Regions:    ridingRegions,
	})

	router := api.NewRouter(pipeline)

	// Timeouts are tuned for the full generate-validate-retry loop
	// (several external API round trips per request).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
