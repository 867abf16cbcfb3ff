package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// Split selects the 1-based inclusive range [start, end] of targets and cuts
// it into chunks of at most size entries.
func Split(targets []string, start, end, size int) ([][]string, error) {
	if start < 1 || start > end || end > len(targets) {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("invalid range %d..%d for %d targets", start, end, len(targets)), nil)
	}
	if size < 1 {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("chunk size must be positive, got %d", size), nil)
	}

	selected := targets[start-1 : end]
	chunks := make([][]string, 0, (len(selected)+size-1)/size)
	for i := 0; i < len(selected); i += size {
		chunks = append(chunks, selected[i:min(i+size, len(selected))])
	}
	return chunks, nil
}

// ChunkFileName is the file name of the n-th (1-based) chunk.
func ChunkFileName(n int) string {
	return fmt.Sprintf("links_part_%d.json", n)
}

// WriteChunks writes each chunk to dir as links_part_<n>.json, creating dir
// if needed, and returns the written paths in order.
func WriteChunks(dir string, chunks [][]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("loader: create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		p := filepath.Join(dir, ChunkFileName(i+1))
		if err := WriteJSON(p, chunk); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
