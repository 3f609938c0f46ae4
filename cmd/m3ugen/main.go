package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"localcast/internal/catalog"
	"localcast/internal/handlers"
	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/mediatypes"
	"localcast/internal/playlist"
	"localcast/internal/sandbox"
	"localcast/internal/startup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		logging.Error("m3ugen: %v", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "m3ugen",
		Usage:     "print an M3U playlist for a LocalCast media root",
		UsageText: "m3ugen --root DIR --base-url URL [--collection ID] [--ext .mp4 ...]",
		Version:   startup.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "root",
				Usage:    "media root containing common/ and tv_<id>/",
				EnvVars:  []string{startup.EnvPrefix + "_MEDIA_ROOT"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "base-url",
				Usage:    "absolute base URL of the LocalCast server, e.g. http://192.168.1.20:8000",
				EnvVars:  []string{startup.EnvPrefix + "_PUBLIC_BASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "collection id; the common library when omitted",
			},
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "allowed extension, repeatable or comma separated",
				Value: cli.NewStringSlice(mediatypes.DefaultExtensions...),
			},
		},
		Action: generate,
	}
}

func generate(c *cli.Context) error {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	base, err := startup.NormalizeBaseURL(c.String("base-url"))
	if err != nil {
		return err
	}
	if base == "" {
		return errors.New("base-url must not be empty")
	}
	exts := mediatypes.NormalizeExtensions(c.StringSlice("ext"))
	if len(exts) == 0 {
		return errors.New("at least one extension is required")
	}

	scope, id := media.ScopeCommon, ""
	if c.IsSet("collection") {
		scope, id = media.ScopeCollection, c.String("collection")
	}

	sb := sandbox.New(root)
	items, err := catalog.New(sb, exts).List(c.Context, scope, id)
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, handlers.MediaURL(base, item))
	}

	if f, ok := c.App.Writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logging.Info("Writing %d entries to the terminal; redirect to a .m3u file to save the playlist", len(urls))
	}
	return playlist.Write(c.App.Writer, urls)
}
