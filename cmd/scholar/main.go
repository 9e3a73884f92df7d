// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	scholar "github.com/poiesic/scholar"
	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/chunk"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/httpapi"
	"github.com/poiesic/scholar/ingestion"
	"github.com/poiesic/scholar/vectorstore/qdrant"
)

func main() {
	app := &cli.App{
		Name:  "scholar",
		Usage: "Research assistant over local documents with graph-augmented retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(assistantFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Address to listen on",
						Value:   ":8080",
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a file or every supported file in a directory",
				ArgsUsage: "<path>",
				Action:    ingestCommand,
				Flags: append(assistantFlags(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
				),
			},
			{
				Name:      "watch",
				Usage:     "Watch a directory and ingest files as they appear or change",
				ArgsUsage: "<directory>",
				Action:    watchCommand,
				Flags:     assistantFlags(),
			},
			{
				Name:      "query",
				Usage:     "Ask a research question against the ingested corpus",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: append(assistantFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of source chunks to retrieve",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "no-entities",
						Usage: "Skip knowledge graph augmentation",
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show document registry and knowledge graph statistics",
				Action: statsCommand,
				Flags:  assistantFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// assistantFlags are the flags shared by every command that assembles
// the full assistant stack.
func assistantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "graph",
			Aliases: []string{"g"},
			Usage:   "Path to the BadgerDB knowledge graph directory",
			Value:   "./scholar-graph",
			EnvVars: []string{"SCHOLAR_GRAPH"},
		},
		&cli.StringFlag{
			Name:    "qdrant",
			Usage:   "Qdrant gRPC address; empty runs with the in-process vector store",
			EnvVars: []string{"SCHOLAR_QDRANT"},
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Qdrant collection name",
			Value: "scholar_chunks",
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host for embedding and extraction",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"SCHOLAR_AI_HOST"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Entity extraction model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "generation-model",
			Usage: "Answer generation model name",
			Value: "gemini-2.0-flash",
		},
		&cli.StringFlag{
			Name:    "gemini-api-key",
			Usage:   "Google AI API key; empty runs answering in fallback mode",
			EnvVars: []string{"GEMINI_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Target chunk size in characters",
			Value: 1000,
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Overlap between adjacent chunks in characters",
			Value: 200,
		},
	}
}

// buildAssistant assembles an Assistant from the shared flags.
func buildAssistant(ctx context.Context, c *cli.Context) (*scholar.Assistant, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorModel(c.String("extractor-model")),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithGeminiAPIKey(c.String("gemini-api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []scholar.AssistantOption{
		scholar.WithAIConfig(aiConfig),
		scholar.WithChunking(
			chunk.WithChunkSize(c.Int("chunk-size")),
			chunk.WithOverlap(c.Int("chunk-overlap")),
		),
	}

	if addr := c.String("qdrant"); addr != "" {
		store, err := qdrant.NewStore(ctx, addr,
			qdrant.WithCollection(c.String("collection")))
		if err != nil {
			return nil, fmt.Errorf("connecting to qdrant: %w", err)
		}
		opts = append(opts, scholar.WithVectorStore(store))
	}

	assistant, err := scholar.NewAssistant(c.String("graph"), opts...)
	if err != nil {
		return nil, fmt.Errorf("assembling assistant: %w", err)
	}

	if !assistant.GeneratorConfigured() {
		slog.Warn("no generation API key configured, answers will use extractive fallback mode")
	}
	return assistant, nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assistant, err := buildAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	server, err := httpapi.NewServer(httpapi.Config{
		Pipeline:            assistant.Pipeline(),
		Ingestor:            assistant.Ingestor(),
		Store:               assistant.VectorStore(),
		Entities:            assistant.EntityRepository(),
		Documents:           assistant.DocumentRepository(),
		GeneratorConfigured: assistant.GeneratorConfigured(),
	})
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.String("addr"),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path to a file or directory is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assistant, err := buildAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var report *core.IngestReport
	if info.IsDir() {
		paths, err := ingestion.ListSupportedFiles(path)
		if err != nil {
			return err
		}
		progress := ingestion.NewProgressTracker(os.Stderr, len(paths), c.Int("report-interval"))
		report, err = assistant.Ingestor().IngestDirectory(ctx, path, progress)
		if err != nil {
			return fmt.Errorf("ingesting directory: %w", err)
		}
	} else {
		report, err = assistant.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingesting file: %w", err)
		}
	}

	printReport(report)
	return nil
}

func watchCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("directory to watch is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assistant, err := buildAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	watcher, err := ingestion.NewWatcher(assistant.Ingestor())
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	slog.Info("watching directory", "dir", dir)
	if err := watcher.Watch(ctx, dir); err != nil && err != context.Canceled {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assistant, err := buildAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	response, err := assistant.Query(ctx, &core.ResearchQuery{
		Question:        question,
		TopK:            c.Int("top-k"),
		IncludeEntities: !c.Bool("no-entities"),
	})
	if err != nil {
		return fmt.Errorf("answering query: %w", err)
	}

	printResponse(response)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assistant, err := buildAssistant(ctx, c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	documents, err := assistant.Documents(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	heading := color.New(color.FgCyan, color.Bold)
	heading.Printf("Documents: %d\n", len(documents))
	for _, record := range documents {
		title := record.Title
		if title == "" {
			title = record.DocID
		}
		fmt.Printf("  %s  chunks=%d entities=%d ingested=%s\n",
			title, record.ChunkCount, record.EntityCount,
			record.IngestedAt.Format(time.RFC3339))
	}

	stats, err := assistant.GraphStats(ctx)
	if err != nil {
		return fmt.Errorf("reading graph stats: %w", err)
	}

	heading.Printf("\nKnowledge graph: %d nodes, %d relationships\n", stats.Nodes, stats.Relationships)
	for entityType, count := range stats.TypeHistogram {
		fmt.Printf("  %-12s %d\n", entityType, count)
	}
	return nil
}

func printReport(report *core.IngestReport) {
	success := color.New(color.FgGreen)
	if report.DocID != "" {
		success.Printf("Ingested %s\n", report.DocID)
	}
	fmt.Printf("Chunks processed: %d\n", report.ChunksProcessed)
	fmt.Printf("Entities added:   %d\n", report.EntitiesAdded)

	if len(report.Failures) > 0 {
		failure := color.New(color.FgRed)
		failure.Printf("Failures: %d\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Printf("  %s: %v\n", f.DocID, f.Err)
		}
	}
}

func printResponse(response *core.ResearchResponse) {
	heading := color.New(color.FgCyan, color.Bold)

	heading.Println("Answer")
	fmt.Println(response.Answer)

	if len(response.Sources) > 0 {
		heading.Println("\nSources")
		for i, source := range response.Sources {
			label := source.Title
			if label == "" {
				label = source.DocID
			}
			fmt.Printf("%d. %s (score %.3f)\n", i+1, label, source.RelevanceScore)
		}
	}

	if len(response.RelatedEntities) > 0 {
		heading.Println("\nRelated entities")
		for _, entity := range response.RelatedEntities {
			if entity.TargetEntity != "" {
				fmt.Printf("  %s -[%s]-> %s\n", entity.EntityName, entity.RelationshipLabel, entity.TargetEntity)
			} else {
				fmt.Printf("  %s (%s)\n", entity.EntityName, entity.RelationshipLabel)
			}
		}
	}

	if response.Degraded {
		color.New(color.FgYellow).Println("\n(answer produced in fallback mode)")
	}

	fmt.Printf("\nProcessed in %s\n", response.ProcessingTime.Round(time.Millisecond))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
