package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/pipeline"
	"github.com/dmitrijs2005/cdnkeeper/internal/sink"
	"github.com/dustin/go-humanize"
)

// retrieve runs one retrieval and echoes its stages to the user.
func (a *App) retrieve(ctx context.Context, name string) (*sink.Artifact, error) {
	progress := make(chan pipeline.Progress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		var last pipeline.Stage
		for p := range progress {
			if p.Stage == last {
				continue
			}
			last = p.Stage
			fmt.Fprintf(a.out, "  %s...\n", p.Stage)
		}
	}()

	art, err := a.decryptor.Retrieve(ctx, a.source, name, progress)
	close(progress)
	<-done

	if err != nil {
		return nil, a.fail(err)
	}
	return art, nil
}

// Get decrypts name and writes it to the download directory.
func (a *App) Get(ctx context.Context, name string) error {
	art, err := a.retrieve(ctx, name)
	if err != nil {
		return err
	}

	path, err := sink.SaveToDisk(a.config.DownloadDir, art)
	if err != nil {
		a.log.Error(ctx, "save failed", "file", name, "error", err)
		fmt.Fprintln(a.out, "Error: could not save the file")
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%s) to %s\n", art.Name, humanize.IBytes(uint64(art.Size())), path)
	return nil
}

// Play decrypts name and publishes it for a media player, replacing
// whatever was playing before.
func (a *App) Play(ctx context.Context, name string) error {
	if c := classify.CategoryOf(name); !classify.IsPlayable(c) {
		fmt.Fprintf(a.out, "%s is not playable (%s); use get instead\n", name, c.Label())
		return nil
	}

	art, err := a.retrieve(ctx, name)
	if err != nil {
		return err
	}

	h := a.registry.Publish(art)
	if !a.session.Adopt(ctx, h) {
		return ctx.Err()
	}

	fmt.Fprintf(a.out, "Playing %s at %s\n", art.Name, h.URL)
	return nil
}

// Stop revokes the playback URL, if any.
func (a *App) Stop(ctx context.Context) error {
	h := a.session.Current()
	if h == nil {
		fmt.Fprintln(a.out, "Nothing is playing.")
		return nil
	}
	a.session.Close()
	fmt.Fprintf(a.out, "Stopped %s\n", h.Name)
	return nil
}
