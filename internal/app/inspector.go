package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/internal/config"
	"schmoovin/motiongraph/internal/inspect"
	"schmoovin/motiongraph/locomotion"
	"schmoovin/motiongraph/logging"
	"schmoovin/motiongraph/logging/sinks"
	"schmoovin/motiongraph/override"
)

const shutdownTimeout = 5 * time.Second

// RunInspector drives the demo character at the configured tick rate and
// serves its diagnostics on /ws until ctx is cancelled.
func RunInspector(ctx context.Context, cfg config.Config, logw io.Writer) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	return serveInspector(ctx, cfg, logw, ln)
}

func serveInspector(ctx context.Context, cfg config.Config, logw io.Writer, ln net.Listener) error {
	defer ln.Close()
	fallback := log.New(logw, "[motiongraph] ", log.LstdFlags)
	logCfg := cfg.Logging()

	tmpl, err := locomotion.DemoTemplate()
	if err != nil {
		return err
	}
	hub := inspect.NewHub(inspect.HubConfig{
		Logger: fallback,
		Info:   map[string]any{"template": tmpl.Name(), "tickRate": cfg.TickRate},
	})
	defer hub.Close()

	named, closers, err := buildSinks(logCfg, logw, hub)
	if err != nil {
		return err
	}
	router := logging.NewRouter(nil, logCfg, named)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			fallback.Printf("failed to close logging router: %v", err)
		}
		for _, c := range closers {
			c.Close()
		}
	}()

	assets := make([]*override.Asset, 0, len(cfg.Overrides))
	for _, path := range cfg.Overrides {
		asset, err := override.Load(path)
		if err != nil {
			return err
		}
		assets = append(assets, asset)
	}

	inst, err := tmpl.Instantiate(ctx, graph.InstanceOptions{
		Publisher: router,
		Overrides: assets,
		Trace:     cfg.Trace,
	})
	if err != nil {
		return err
	}
	defer inst.Close()

	driver := locomotion.NewDriver(inst, newScenario(), locomotion.NewMover(cfg.TickRate))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handle)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		stats := router.Stats()
		fmt.Fprintf(w, "ok events=%d dropped=%d streamed=%d\n",
			stats.EventsTotal, stats.DroppedTotal, stats.Sinks["inspector"].Written)
	})
	srv := &http.Server{Handler: mux}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		fallback.Printf("inspector listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serveErr)
	}()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		driver.Run(ctx, cfg.TickRate)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
	}
	cancel()
	<-loopDone

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown: %w", err)
	}
	return runErr
}

func buildSinks(cfg logging.Config, logw io.Writer, hub *inspect.Hub) ([]logging.NamedSink, []io.Closer, error) {
	var (
		named   []logging.NamedSink
		closers []io.Closer
	)
	for _, name := range cfg.EnabledSinks {
		switch name {
		case "console":
			named = append(named, logging.NamedSink{Name: name, Sink: sinks.NewConsole(logw)})
		case "json":
			file, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				for _, c := range closers {
					c.Close()
				}
				return nil, nil, fmt.Errorf("open json log: %w", err)
			}
			closers = append(closers, file)
			named = append(named, logging.NamedSink{Name: name, Sink: sinks.NewJSON(file, cfg.JSON.FlushInterval)})
		case "inspector":
			named = append(named, logging.NamedSink{Name: name, Sink: sinks.NewBroadcast(hub)})
		default:
			return nil, nil, fmt.Errorf("unknown log sink %q", name)
		}
	}
	if !cfg.HasSink("inspector") {
		named = append(named, logging.NamedSink{Name: "inspector", Sink: sinks.NewBroadcast(hub)})
	}
	return named, closers, nil
}
