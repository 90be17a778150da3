package hospitals

import (
	"context"
	"fmt"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	SourceURL    = "url"
	SourceFile   = "file"
	SourceUpload = "upload"
)

// Load resolves the startup dataset. A configured url wins and its body is
// cached at path, a failed download falls back to the cached file.
func Load(ctx context.Context, f *Fetcher, url, path string) ([]core.HospitalRecord, string, error) {
	logger := log.FromCtx(ctx)

	if url != "" {
		body, records, err := f.Fetch(ctx, url)
		if err == nil {
			if werr := WriteFile(path, body); werr != nil {
				logger.Warn().Err(werr).Str("path", path).Msg("failed to cache dataset")
			}
			return records, SourceURL, nil
		}
		logger.Warn().Err(err).Str("url", url).Msg("dataset download failed, using local copy")
	}

	records, err := LoadFile(path)
	if err != nil {
		return nil, SourceFile, fmt.Errorf("failed to load dataset: %w", err)
	}
	return records, SourceFile, nil
}
