package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/embedding"
	"github.com/pathshala/pathshala/internal/logging"
)

const ingestBatchSize = 64

// LoadChunkFile parses a JSONL file of content chunks, one record per
// line. Records may carry precomputed embeddings; missing vectors are
// filled in during ingestion.
func LoadChunkFile(path string) ([]domain.ContentChunk, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chunk file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	var chunks []domain.ContentChunk
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var chunk domain.ContentChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return nil, fmt.Errorf("parse chunk file line %d: %w", lineNo, err)
		}
		if chunk.ID == "" {
			return nil, fmt.Errorf("chunk file line %d: missing chunk_id", lineNo)
		}
		chunks = append(chunks, chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chunk file: %w", err)
	}
	return chunks, nil
}

// IngestFile loads a chunk file, embeds records that lack vectors, and
// writes everything into the index. Returns the number of chunks added.
func IngestFile(ctx context.Context, idx Index, embedder embedding.Embedder, path string) (int, error) {
	chunks, err := LoadChunkFile(path)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("chunk file %q contains no records", path)
	}

	for i := range chunks {
		if len(chunks[i].Embedding) > 0 {
			continue
		}
		vec, err := embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %q: %w", chunks[i].ID, err)
		}
		chunks[i].Embedding = vec
	}

	for start := 0; start < len(chunks); start += ingestBatchSize {
		end := start + ingestBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := idx.Add(ctx, chunks[start:end]); err != nil {
			return 0, err
		}
	}

	logging.Info("ingested chunks", zap.Int("count", len(chunks)), zap.String("file", path))
	return len(chunks), nil
}
