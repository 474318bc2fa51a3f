package main

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const cbsaShapefileURL = "https://www2.census.gov/geo/tiger/TIGER2023/CBSA/tl_2023_us_cbsa.zip"

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the Census CBSA boundary shapefile",
	Long:  "Downloads and extracts the Census TIGER/Line CBSA shapefile ZIP into the configured data directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		destDir := filepath.Dir(cfg.Data.ShapefilePath)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return eris.Wrap(err, "fetch: create data dir")
		}

		log := zap.L().With(zap.String("component", "fetch"))
		zipPath := filepath.Join(destDir, filepath.Base(fetchURL))

		log.Info("downloading CBSA shapefile", zap.String("url", fetchURL))
		if err := downloadFile(cmd.Context(), http.DefaultClient, fetchURL, zipPath); err != nil {
			return eris.Wrap(err, "fetch: download CBSA shapefile")
		}

		if err := extractZIP(zipPath, destDir); err != nil {
			return eris.Wrap(err, "fetch: extract CBSA ZIP")
		}

		log.Info("CBSA shapefile ready", zap.String("dir", destDir))
		return nil
	},
}

// downloadFile downloads a URL to a local file.
func downloadFile(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}

	return nil
}

// extractZIP extracts a ZIP archive to the destination directory.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		name := filepath.Base(f.Name)
		if f.FileInfo().IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		destPath := filepath.Join(destDir, name)

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", cbsaShapefileURL, "shapefile ZIP URL")
	rootCmd.AddCommand(fetchCmd)
}
