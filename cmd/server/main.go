package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lookscan/backend/config"
	httpDelivery "github.com/lookscan/backend/internal/delivery/http"
	"github.com/lookscan/backend/internal/domain"
	openaiInfra "github.com/lookscan/backend/internal/infrastructure/openai"
	"github.com/lookscan/backend/internal/infrastructure/serpapi"
	"github.com/lookscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Lookscan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	debug := cfg.Server.Environment == "development"

	// Initialize infrastructure dependencies
	serpClient := serpapi.NewClient(cfg.SerpAPI.APIKey, cfg.SerpAPI.BaseURL)
	if debug {
		serpClient.SetDebug(true)
		log.Printf("SerpAPI client debug mode enabled")
	}
	log.Printf("SerpAPI configured: %s", cfg.SerpAPI.BaseURL)

	var describer domain.Describer
	var verifier domain.Verifier
	if cfg.OpenAI.APIKey != "" {
		describer = openaiInfra.NewDescriber(cfg.OpenAI.APIKey, cfg.OpenAI.DescribeModel)
		verifier = openaiInfra.NewVerifier(cfg.OpenAI.APIKey, cfg.OpenAI.VerifyModel)
		log.Printf("Vision models configured: describe=%s verify=%s", cfg.OpenAI.DescribeModel, cfg.OpenAI.VerifyModel)
	} else {
		log.Printf("WARNING: OpenAI key not configured - scanning disabled, labels fall back to text matching")
	}

	// Initialize usecase layer
	planner := usecase.NewQueryPlanner(debug)

	aggregator := usecase.NewCandidateAggregator(serpClient, serpClient, usecase.AggregatorConfig{
		MaxQueryFanOut:     cfg.Pipeline.MaxQueryFanOut,
		MaxCandidates:      cfg.Pipeline.MaxCandidates,
		EnableDebugLogging: debug,
	})

	resolver := usecase.NewResolver(planner, aggregator, verifier, serpClient, serpClient, usecase.ResolverConfig{
		MaxVerified:        cfg.Pipeline.MaxVerified,
		MatchThreshold:     cfg.Pipeline.MatchThreshold,
		SellerThreshold:    cfg.Pipeline.SellerThreshold,
		EnableDebugLogging: debug,
	})

	scanService := usecase.NewScanService(describer, resolver)

	log.Printf("Pipeline: fan-out=%d, candidates=%d, verified=%d, thresholds=%.0f/%.0f",
		cfg.Pipeline.MaxQueryFanOut,
		cfg.Pipeline.MaxCandidates,
		cfg.Pipeline.MaxVerified,
		cfg.Pipeline.MatchThreshold,
		cfg.Pipeline.SellerThreshold)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scanService, resolver)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
