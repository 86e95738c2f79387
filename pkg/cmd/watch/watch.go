package watch

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/cmd/util"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/config"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/publish"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/service"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils"
	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/watch"
)

var (
	interval     time.Duration
	stableChecks int
	existing     bool
	doImport     bool
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch dir",
		Short: "parses telemetry files as soon as they are written to dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchDir(cmd.Context(), args[0])
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second,
		"poll interval for the size check of new files")
	cmd.Flags().IntVar(&stableChecks, "stable-checks", 2,
		"number of polls the file size must stay unchanged")
	cmd.Flags().BoolVar(&existing, "existing", false,
		"also process files already present in dir")
	cmd.Flags().BoolVar(&doImport, "import", false,
		"store parsed files in the database")
	cmd.Flags().StringVar(&config.NatsURL, "nats-url", "",
		"publish parse summaries to this NATS server")
	cmd.Flags().StringVar(&config.NatsSubject, "nats-subject", publish.DefaultSubject,
		"subject prefix for parse summaries")
	return cmd
}

type handler func(ctx context.Context, ev watch.Event)

//nolint:funlen // setup of optional handlers
func watchDir(ctx context.Context, dir string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := util.NewParser()
	handlers := []handler{logResult}

	if doImport {
		pool, err := util.OpenDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		handlers = append(handlers, importResult(service.NewImportService(pool, p)))
	}

	if config.NatsURL != "" {
		addr := utils.ExtractFromNatsURL(config.NatsURL)
		timeout := util.ParseDuration(config.WaitForServices, 60*time.Second)
		if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
			return err
		}
		conn, err := publish.Connect(config.NatsURL, "ita-watch")
		if err != nil {
			return err
		}
		defer conn.Close()
		handlers = append(handlers, publishResult(
			publish.New(conn, publish.WithSubject(config.NatsSubject))))
	}

	w := watch.New(dir,
		watch.WithParseFunc(p.ParseFile),
		watch.WithInterval(interval),
		watch.WithStableChecks(stableChecks),
		watch.WithExisting(existing))

	wg := sync.WaitGroup{}
	for _, h := range handlers {
		ch := w.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			watch.Consume(ctx, ch, h)
		}()
	}

	err := w.Run(ctx)
	wg.Wait()
	return err
}

func logResult(_ context.Context, ev watch.Event) {
	if ev.Err != nil {
		return
	}
	log.Info("parsed file",
		log.String("file", ev.Path),
		log.String("track", ev.Result.Metadata.Track.GetOrZero()),
		log.String("car", ev.Result.Metadata.Car.GetOrZero()),
		log.Int("laps", len(ev.Result.Metadata.LapTimes)))
}

func importResult(svc *service.ImportService) handler {
	return func(ctx context.Context, ev watch.Event) {
		if ev.Err != nil {
			return
		}
		hash, err := utils.HashFile(ev.Path)
		if err != nil {
			log.Warn("could not hash file", log.String("file", ev.Path), log.ErrorField(err))
			return
		}
		if _, err := svc.Store(ctx, hash, ev.Result); err != nil {
			log.Warn("could not import file", log.String("file", ev.Path), log.ErrorField(err))
		}
	}
}

func publishResult(pub *publish.Publisher) handler {
	return func(_ context.Context, ev watch.Event) {
		if ev.Err != nil {
			return
		}
		if err := pub.Publish(ev.Result); err != nil {
			log.Warn("could not publish summary",
				log.String("file", ev.Path), log.ErrorField(err))
		}
	}
}
