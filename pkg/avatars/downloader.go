package avatars

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultExtension is used when an avatar URL has no file extension.
const DefaultExtension = ".png"

// Stats summarises one download run.
type Stats struct {
	Total      int // contributors listed
	Downloaded int
	Existing   int // already on disk, skipped
	Bots       int // skipped as bot accounts
	Failed     int
}

// Downloader fetches avatars into OutputDir. Contributors are split into
// Workers chunks of equal size, each processed by its own goroutine.
type Downloader struct {
	Client    *http.Client
	OutputDir string
	Workers   int
	Bots      []string
	Logger    *slog.Logger

	mu    sync.Mutex
	stats Stats
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// IsBot reports whether login matches one of the bot names exactly, or ends
// with a bot name that is itself a suffix marker such as "[bot]".
func (d *Downloader) IsBot(login string) bool {
	for _, bot := range d.Bots {
		if login == bot {
			return true
		}
		if strings.HasPrefix(bot, "[") && strings.HasSuffix(login, bot) {
			return true
		}
	}
	return false
}

// FileName returns the file an avatar is stored under: the login plus the
// extension of the URL path, or DefaultExtension when there is none.
func FileName(login, avatarURL string) string {
	ext := DefaultExtension
	if u, err := url.Parse(avatarURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	login = strings.NewReplacer("/", "_", `\`, "_").Replace(login)
	return login + ext
}

// Chunks splits items into groups of ceil(len/workers).
func Chunks[T any](items []T, workers int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	size := (len(items) + workers - 1) / workers
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// Run downloads every avatar not yet present. Per-contributor failures are
// logged and counted; only context cancellation or an unusable output
// directory aborts the run.
func (d *Downloader) Run(ctx context.Context, contributors []Contributor) (Stats, error) {
	if err := os.MkdirAll(d.OutputDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("avatars: create %s: %w", d.OutputDir, err)
	}

	d.mu.Lock()
	d.stats = Stats{Total: len(contributors)}
	d.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, chunk := range Chunks(contributors, d.Workers) {
		g.Go(func() error {
			for _, c := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				d.process(ctx, c)
			}
			return nil
		})
	}
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats, err
}

func (d *Downloader) count(f func(*Stats)) {
	d.mu.Lock()
	f(&d.stats)
	d.mu.Unlock()
}

func (d *Downloader) process(ctx context.Context, c Contributor) {
	log := d.logger().With("login", c.Login)

	if d.IsBot(c.Login) {
		log.Debug("skipping bot")
		d.count(func(s *Stats) { s.Bots++ })
		return
	}

	filename := filepath.Join(d.OutputDir, FileName(c.Login, c.AvatarURL))
	if _, err := os.Stat(filename); err == nil {
		log.Debug("avatar exists", "file", filename)
		d.count(func(s *Stats) { s.Existing++ })
		return
	}

	if err := d.fetch(ctx, c.AvatarURL, filename); err != nil {
		log.Warn("avatar download failed", "url", c.AvatarURL, "error", err)
		d.count(func(s *Stats) { s.Failed++ })
		return
	}
	log.Info("avatar downloaded", "file", filename)
	d.count(func(s *Stats) { s.Downloaded++ })
}

// fetch streams the body into a temporary file and renames it into place, so
// filename only ever exists with complete contents.
func (d *Downloader) fetch(ctx context.Context, avatarURL, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return err
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", avatarURL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), ".avatar-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filename)
}
