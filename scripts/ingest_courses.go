package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"careerboost/cv-analyzer/internal/config"
	"careerboost/cv-analyzer/internal/services"
)

const defaultCatalogDir = "./course_catalog"

// Usage: go run scripts/ingest_courses.go [file ...]
// Without arguments every PDF, DOCX, markdown or text file in
// ./course_catalog is ingested.
func main() {
	log.Println("🚀 Starting course catalog ingestion...")

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.Gemini, cfg.Breaker, cfg.Worker.RetryInitialDelay)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	catalog, err := services.NewCourseCatalog(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()
	if err := catalog.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	paths := os.Args[1:]
	if len(paths) == 0 {
		paths, err = catalogFiles(defaultCatalogDir)
		if err != nil {
			log.Fatalf("❌ Failed to list %s: %v", defaultCatalogDir, err)
		}
	}
	if len(paths) == 0 {
		log.Fatalf("❌ No catalog files found in %s", defaultCatalogDir)
	}

	extractor := services.NewTextExtractor()
	chunker := services.NewTextChunker()

	successCount := 0
	failCount := 0

	for _, path := range paths {
		source := filepath.Base(path)
		log.Printf("\n📄 Processing: %s", path)

		text, err := readCatalogText(extractor, path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d characters", len(text))

		chunks := chunker.ChunkText(text, 1000, 200)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		// Re-ingesting a file replaces its previous chunks.
		if err := catalog.DeleteSource(ctx, source); err != nil {
			log.Printf("   ⚠️  Failed to clear previous chunks: %v", err)
		}

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			if err := catalog.UpsertChunk(ctx, source, i, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		if stored == 0 {
			failCount++
			continue
		}
		log.Printf("   ✅ Successfully ingested %s", source)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d files", successCount)
	log.Printf("   ❌ Failed: %d files", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some files failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Course catalog ingested successfully!")
}

func catalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".docx", ".md", ".txt":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	return paths, nil
}

func readCatalogText(extractor services.TextExtractor, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	mimeType, err := services.DetectMimeType(path, "")
	if err != nil {
		return "", err
	}

	content, err := extractor.ExtractFile(path, mimeType)
	if err != nil {
		return "", err
	}

	return content.Text, nil
}
