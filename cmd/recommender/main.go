package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-recommendation-engine/api"
	"github.com/gcbaptista/go-recommendation-engine/config"
	"github.com/gcbaptista/go-recommendation-engine/internal/engine"
	"github.com/gcbaptista/go-recommendation-engine/internal/export"
	"github.com/gcbaptista/go-recommendation-engine/model"
)

// corpusFile is the batch-mode input: a finalized corpus produced by the
// ingestion pipeline.
type corpusFile struct {
	Documents    []model.Document        `json:"documents"`
	Observations []model.TermObservation `json:"observations"`
}

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		port       = flag.String("port", "8080", "Port to run the server on (serve mode)")
		configPath = flag.String("config", "", "Path to a TOML settings file")
		corpusPath = flag.String("corpus", "", "Path to a corpus JSON file (batch mode)")
		outputPath = flag.String("output", "", "Write batch results to a JSON file instead of the console")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Document Recommendation Engine - hybrid vector + title-salience ranking\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                                   # Start the HTTP API on port 8080\n", os.Args[0])
		fmt.Printf("  %s --corpus corpus.json              # Batch mode: print recommendations\n", os.Args[0])
		fmt.Printf("  %s --corpus corpus.json --output out.json\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Document Recommendation Engine v1.0.0\n")
		return
	}

	settings := config.Settings{}
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		settings = loaded
	}

	eng, err := engine.NewEngine(settings)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	if *corpusPath != "" {
		runBatch(eng, *corpusPath, *outputPath)
		return
	}

	// Serve mode: expose the corpus lifecycle and recommendation queries
	// over HTTP.
	router := gin.Default()
	api.SetupRoutes(router, eng)

	log.Printf("Starting server on port %s...", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runBatch populates the engine from a corpus file, seals it, produces the
// recommendation list for every document, and writes the output.
func runBatch(eng *engine.Engine, corpusPath, outputPath string) {
	data, err := os.ReadFile(corpusPath)
	if err != nil {
		log.Fatalf("Failed to read corpus file: %v", err)
	}

	var corpus corpusFile
	if err := json.Unmarshal(data, &corpus); err != nil {
		log.Fatalf("Failed to parse corpus file: %v", err)
	}

	for i := range corpus.Documents {
		if corpus.Documents[i].ID == uuid.Nil {
			corpus.Documents[i].ID = model.DocumentID(corpus.Documents[i].Title)
		}
	}

	if err := eng.AddDocuments(corpus.Documents); err != nil {
		log.Fatalf("Failed to add documents: %v", err)
	}
	if err := eng.AddTermObservations(corpus.Observations); err != nil {
		log.Fatalf("Failed to add term observations: %v", err)
	}
	if err := eng.Seal(); err != nil {
		log.Fatalf("Failed to seal corpus: %v", err)
	}

	lists, err := eng.RecommendAll(context.Background(), 0)
	if err != nil {
		log.Fatalf("Failed to produce recommendations: %v", err)
	}

	if outputPath != "" {
		if err := export.WriteJSONFile(outputPath, lists); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		log.Printf("Wrote recommendations for %d documents to %s", len(lists), outputPath)
		return
	}

	if err := export.WriteConsole(os.Stdout, lists); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}
