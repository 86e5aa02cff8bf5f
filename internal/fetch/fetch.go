// Package fetch downloads mod packages from URLs so they can go
// through the normal install path. Unlike the daemon transport,
// downloads retry on transient failures: the remote host is the open
// internet, not a local socket.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/modpkg"
)

// retryLogger adapts the package logger to the retryablehttp
// LeveledLogger interface. Info and debug stay quiet; retries are only
// interesting when they signal trouble.
type retryLogger struct {
	log *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Msgf("%s %v", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Msgf("%s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(string, ...interface{})  {}
func (l *retryLogger) Debug(string, ...interface{}) {}

// Progress receives download progress. total is -1 when the server
// sent no Content-Length.
type Progress func(written, total int64)

// Fetcher downloads package files into a directory.
type Fetcher struct {
	client *retryablehttp.Client
	dir    string
	log    *logging.Logger
}

// New creates a fetcher saving downloads under dir.
func New(dir string, log *logging.Logger) *Fetcher {
	log = log.Component("fetch")

	client := retryablehttp.NewClient()
	client.RetryMax = 5
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 30 * time.Second
	client.Logger = &retryLogger{log: log}

	return &Fetcher{client: client, dir: dir, log: log}
}

// Download fetches rawURL into the fetcher's directory and returns the
// local file path. The filename comes from the URL path and must be a
// valid package filename; the write goes through a temp file plus
// rename so an interrupted download never leaves a plausible-looking
// package behind.
func (f *Fetcher) Download(ctx context.Context, rawURL string, onProgress Progress) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", apperr.New(apperr.CodeInvalidPath, "not a downloadable URL: %s", rawURL)
	}
	fileName := path.Base(u.Path)
	if err := modpkg.ValidateFilename(fileName); err != nil {
		return "", err
	}
	if !modpkg.KnownExtension(filepath.Ext(fileName)) {
		return "", apperr.New(apperr.CodeModPkg, "URL does not name a package file: %s", fileName)
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", apperr.New(apperr.CodeIO, "create download dir: %v", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", apperr.New(apperr.CodeInvalidPath, "build request: %v", err)
	}

	f.log.Info().Str("url", rawURL).Msg("downloading package")
	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperr.New(apperr.CodeIO, "download failed: %v", err).
			WithContext("url", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", apperr.New(apperr.CodeIO, "server answered %s", resp.Status).
			WithContext("url", rawURL)
	}

	dest := filepath.Join(f.dir, fileName)
	tmp, err := os.CreateTemp(f.dir, fileName+".part-*")
	if err != nil {
		return "", apperr.New(apperr.CodeIO, "create temp file: %v", err)
	}
	tmpPath := tmp.Name()

	written, err := copyWithProgress(tmp, resp.Body, resp.ContentLength, onProgress)
	closeErr := tmp.Close()
	if err != nil || closeErr != nil {
		os.Remove(tmpPath)
		if err == nil {
			err = closeErr
		}
		return "", apperr.New(apperr.CodeIO, "write package: %v", err).
			WithContext("url", rawURL)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", apperr.New(apperr.CodeIO, "finalize download: %v", err)
	}

	f.log.Info().Str("file", fileName).Str("size", fmt.Sprintf("%d", written)).Msg("download complete")
	return dest, nil
}

func copyWithProgress(dst io.Writer, src io.Reader, total int64, onProgress Progress) (int64, error) {
	if onProgress == nil {
		return io.Copy(dst, src)
	}

	var written int64
	buf := make([]byte, 128*1024)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			onProgress(written, total)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// IsURL reports whether s looks like something Download can handle, so
// the CLI can route mixed file/URL install arguments.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
