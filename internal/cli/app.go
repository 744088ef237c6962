package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/config"
	"github.com/dmitrijs2005/cdnkeeper/internal/cryptox"
	"github.com/dmitrijs2005/cdnkeeper/internal/fetch"
	"github.com/dmitrijs2005/cdnkeeper/internal/logging"
	"github.com/dmitrijs2005/cdnkeeper/internal/pipeline"
	"github.com/dmitrijs2005/cdnkeeper/internal/sink"
)

type App struct {
	config    *config.Config
	source    fetch.Source
	decryptor *pipeline.Decryptor
	registry  *sink.Registry
	session   *sink.Session
	log       logging.Logger
	out       io.Writer
}

// NewApp wires the source, key provider and artifact registry described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	src, err := newSource(ctx, c)
	if err != nil {
		return nil, err
	}

	keys, err := newKeyProvider(c, os.Stdout)
	if err != nil {
		return nil, err
	}

	return newApp(c, src, keys, log, os.Stdout), nil
}

func newApp(c *config.Config, src fetch.Source, keys *cryptox.KeyProvider, log logging.Logger, out io.Writer) *App {
	return &App{
		config:    c,
		source:    src,
		decryptor: pipeline.NewDecryptor(keys, c.Layout(), c.Workers, log),
		registry:  sink.NewRegistry("http://" + c.ListenAddr),
		session:   sink.NewSession(),
		log:       log,
		out:       out,
	}
}

func newSource(ctx context.Context, c *config.Config) (fetch.Source, error) {
	switch c.SourceKind {
	case config.SourceS3:
		return fetch.NewS3Source(ctx, fetch.S3Settings{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		}, c.HTTPTimeout)
	default:
		return fetch.NewHTTPSource(c.BaseURL, c.APIKey, c.TokenSecret, c.HTTPTimeout), nil
	}
}

// newKeyProvider uses the configured key or, failing that, prompts once.
// Like any provider it remembers a failed import.
func newKeyProvider(c *config.Config, w io.Writer) (*cryptox.KeyProvider, error) {
	alg, err := cryptox.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}

	if c.AESKey != "" {
		return cryptox.NewKeyProvider(alg, c.AESKey), nil
	}

	return cryptox.NewKeyProviderFunc(func() (*cryptox.KeyHandle, error) {
		b64, err := GetKey(w)
		if err != nil {
			return nil, fmt.Errorf("%w: read key: %v", common.ErrKeyImport, err)
		}
		defer common.WipeByteArray(b64)
		return cryptox.ImportKey(alg, string(b64))
	}), nil
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(sink.PathPrefix, a.registry)
	return mux
}

// Run serves published artifacts on the configured address and runs the
// shell on stdin until the user exits or ctx is cancelled. Any artifact
// still published is revoked on the way out.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.config.ListenAddr, err)
	}

	srv := &http.Server{Handler: a.routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "artifact server stopped", "error", err)
		}
	}()

	defer func() {
		a.session.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "artifact server listening", "addr", ln.Addr().String())
	fmt.Fprintln(a.out, "Welcome to cdnkeeper (type 'help' for commands)")

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

func (a *App) status() string {
	if h := a.session.Current(); h != nil {
		return fmt.Sprintf("(playing %s)", h.Name)
	}
	return ""
}

// fail reports err to the user without internal detail and returns it.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", common.KindOf(err).Message())
	return err
}
