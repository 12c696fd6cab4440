// scraper/csv_downloader.go
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DownloadFile downloads url and saves it at localSavePath. The file is written
// next to its destination first and renamed into place, so a failed download
// never leaves a truncated lookup table behind.
func DownloadFile(ctx context.Context, client *resty.Client, url string, localSavePath string) error {
	slog.InfoContext(ctx, "downloading file", "component", "scraper", "url", url, "path", localSavePath)

	res, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("failed to download file from %s: received status code %d", url, res.StatusCode())
	}

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(localSavePath)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create local file for %s: %w", localSavePath, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(res.Body()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write downloaded content to %s: %w", localSavePath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), localSavePath); err != nil {
		return fmt.Errorf("failed to move download into %s: %w", localSavePath, err)
	}

	slog.InfoContext(ctx, "download complete", "component", "scraper", "url", url, "bytes", len(res.Body()))
	return nil
}

// ResolveLookupSource turns a lookup source into a local file path. Local paths
// are returned unchanged; http(s) URLs are downloaded into cacheDir first.
func ResolveLookupSource(ctx context.Context, client *resty.Client, source, cacheDir string) (string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return source, nil
	}
	name := path.Base(strings.SplitN(source, "?", 2)[0])
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("cannot derive a file name from lookup URL %s", source)
	}
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	localPath := filepath.Join(cacheDir, name)
	if err := DownloadFile(ctx, client, source, localPath); err != nil {
		return "", fmt.Errorf("failed to download lookup table: %w", err)
	}
	return localPath, nil
}
