package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/campusnotice/notice-qa/api"
	"github.com/campusnotice/notice-qa/config"
	"github.com/campusnotice/notice-qa/internal/answer"
	"github.com/campusnotice/notice-qa/internal/engine"
	"github.com/campusnotice/notice-qa/internal/synonyms"
	"github.com/campusnotice/notice-qa/store"
)

func main() {
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "", "Port to run the server on (overrides PORT)")
		dataDir = flag.String("data-dir", "", "Directory holding the notice corpus (overrides DATA_DIR)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Notice QA - retrieval and question answering over institutional notices\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                               # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                   # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --data-dir /srv/notice_data   # Use a custom corpus directory\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Notice QA v1.0.0\n")
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		p, err := strconv.Atoi(*port)
		if err != nil {
			log.Fatalf("Invalid --port value %q: %v", *port, err)
		}
		cfg.Port = p
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	log.Printf("Using data directory: %s", cfg.DataDir)
	noticeStore, err := store.NewNoticeStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open notice store: %v", err)
	}

	synonymMap := synonyms.Default()
	if cfg.SynonymsFile != "" {
		synonymMap, err = synonyms.LoadTOML(cfg.SynonymsFile)
		if err != nil {
			log.Fatalf("Failed to load synonyms from %s: %v", cfg.SynonymsFile, err)
		}
		log.Printf("Loaded %d synonym entries from %s", len(synonymMap), cfg.SynonymsFile)
	}

	var generator answer.Generator
	if cfg.GenerationEnabled() {
		generator = answer.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.GenerationMaxTokens)
		log.Printf("Generation enabled with model %s", cfg.OpenAIModel)
	} else {
		log.Printf("No generation capability configured; answers will be rule-based")
	}
	synthesizer := answer.NewSynthesizer(generator, cfg.GenerationTimeout)

	queryEngine := engine.NewEngine(noticeStore, synonymMap, synthesizer, cfg.DataDir, cfg.DefaultTopK)

	router := gin.Default()
	api.SetupRoutes(router, queryEngine, noticeStore)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Printf("Starting server on %s...", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
