package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/coinjecture/core/app/services/coreapi/handlers"
	"github.com/coinjecture/core/foundation/blockchain/corerpc"
	"github.com/coinjecture/core/foundation/blockchain/ffi"
	"github.com/coinjecture/core/foundation/blockchain/golden"
	"github.com/coinjecture/core/foundation/events"
	"github.com/coinjecture/core/foundation/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("COREAPI")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			APIHost         string        `conf:"default:0.0.0.0:8080"`
			RPCHost         string        `conf:"default:0.0.0.0:9080"`
			AllowOrigin     string        `conf:"default:*"`
		}
		Core struct {
			CheckVectors bool `conf:"default:true"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "COINjecture consensus core",
		},
	}

	const prefix = "COREAPI"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build, "core", ffi.Version(), "codec", ffi.CodecVersion())
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Core Support

	// A core that does not reproduce its frozen vectors must not serve
	// consensus traffic.
	if cfg.Core.CheckVectors {
		set, err := golden.Frozen()
		if err != nil {
			return fmt.Errorf("loading frozen vectors: %w", err)
		}

		if mm := golden.Check(set); len(mm) != 0 {
			for _, m := range mm {
				log.Errorw("startup", "status", "vector mismatch", "mismatch", m.String())
			}
			return fmt.Errorf("core drifted from frozen vectors: %d mismatches", len(mm))
		}

		log.Infow("startup", "status", "frozen vectors reproduced", "version", set.Version)
	}

	// The core packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(events.Event{Kind: events.KindSystem, Message: s})
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log)

	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 2)

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	apiMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown:    shutdown,
		Log:         log,
		Evts:        evts,
		AllowOrigin: cfg.Web.AllowOrigin,
	})

	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Start RPC Service

	log.Infow("startup", "status", "initializing RPC support")

	lis, err := net.Listen("tcp", cfg.Web.RPCHost)
	if err != nil {
		return fmt.Errorf("rpc listen: %w", err)
	}

	rpc := grpc.NewServer(grpc.UnaryInterceptor(corerpc.UnaryLogger(log)))
	corerpc.NewServer(ev).Register(rpc)

	go func() {
		log.Infow("startup", "status", "rpc server started", "host", lis.Addr().String())
		serverErrors <- rpc.Serve(lis)
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		rpc.Stop()
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		log.Infow("shutdown", "status", "shutdown RPC started")
		rpc.GracefulStop()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown API started")
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop api service gracefully: %w", err)
		}
	}

	return nil
}
