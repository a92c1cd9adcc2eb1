package off

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
)

var httpClient = &http.Client{Timeout: 0} // Dump-Download läuft Stunden, kein Gesamt-Timeout

// Downloader lädt den kompletten OFF-JSONL-Dump (~8 GB komprimiert) und
// setzt abgebrochene Downloads per HTTP-Range-Header fort. Es gibt keine
// Retry-Logik darüber hinaus: schlägt die Anfrage fehl, bricht der Lauf ab.
type Downloader struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewDownloader erstellt einen neuen Downloader.
func NewDownloader(cfg *config.Config, logger *zap.Logger) *Downloader {
	return &Downloader{Config: cfg, Logger: logger}
}

// Download holt den Dump nach cfg.RawDumpFile. Eine teilweise vorhandene
// Datei wird ab ihrem letzten Byte fortgesetzt.
func (d *Downloader) Download(ctx context.Context) error {
	dest := d.Config.RawDumpFile
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	var resumeByte int64
	if info, err := os.Stat(dest); err == nil {
		resumeByte = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.Config.OFFDownloadURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", d.Config.OFFUserAgent)
	if resumeByte > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeByte))
		d.Logger.Info("Vorhandene Teildatei gefunden, versuche Resume",
			zap.Int64("resume_byte", resumeByte))
	}

	d.Logger.Info("Starte Download des OFF-Dumps",
		zap.String("url", d.Config.OFFDownloadURL),
		zap.String("dest", dest))

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	var mode int
	switch {
	case resumeByte > 0 && resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		d.Logger.Info("Datei ist bereits vollständig heruntergeladen.")
		return nil
	case resumeByte > 0 && resp.StatusCode == http.StatusPartialContent:
		mode = os.O_APPEND | os.O_WRONLY
		d.Logger.Info("Server unterstützt Resume, setze Download fort.")
	case resp.StatusCode == http.StatusOK:
		if resumeByte > 0 {
			d.Logger.Warn("Server unterstützt kein Resume, Download beginnt von vorn.")
		}
		mode = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
		resumeByte = 0
	default:
		return fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	f, err := os.OpenFile(dest, mode|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open dest file: %w", err)
	}
	defer f.Close()

	written, err := d.copyWithProgress(ctx, f, resp.Body, resumeByte, resp.ContentLength)
	if err != nil {
		return fmt.Errorf("download interrupted after %d bytes: %w", written, err)
	}

	d.Logger.Info("Download abgeschlossen",
		zap.Int64("total_bytes", resumeByte+written))
	return nil
}

// copyWithProgress kopiert den Body blockweise und loggt alle 500 MB den Fortschritt.
func (d *Downloader) copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, offset, contentLength int64) (int64, error) {
	const chunkSize = 1 << 20
	const logEvery = int64(500 << 20)

	buf := make([]byte, chunkSize)
	var written int64
	var nextLog = logEvery
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			if written >= nextLog {
				nextLog += logEvery
				fields := []zap.Field{
					zap.Float64("gb_done", float64(offset+written)/1e9),
					zap.Duration("elapsed", time.Since(start).Round(time.Second)),
				}
				if contentLength > 0 {
					fields = append(fields, zap.Float64("gb_total", float64(offset+contentLength)/1e9))
				}
				d.Logger.Info("Download läuft", fields...)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
