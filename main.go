package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/9seconds/geolocator/geolib"
	_ "github.com/9seconds/geolocator/providers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const shutdownTimeout = 10 * time.Second

var version = "dev"

var (
	app = kingpin.New(
		"geolocator",
		"Geolocation of IP addresses with pluggable providers")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("GEOLOCATOR_DEBUG").
		Bool()

	resolveCommand = app.Command("resolve", "Resolve geolocation of IP address.")
	resolveConfig  = resolveCommand.Arg("config-path", "Path to the config.").
			Required().
			String()
	resolveIP = resolveCommand.Arg("ip", "IP address to resolve.").
			String()
	resolveProperty = resolveCommand.Flag("property", "Return only this attribute.").
			Short('p').
			String()

	serveCommand = app.Command("serve", "Run HTTP server.")
	serveConfig  = serveCommand.Arg("config-path", "Path to the config.").
			Required().
			String()
)

func main() {
	app.Version(version)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	fs := afero.NewReadOnlyFs(afero.NewOsFs())

	ctx, cancel := makeRootContext()
	err := run(ctx, command, fs)

	cancel()

	if err != nil {
		log.Error().Err(err).Msg("Command has failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, fs afero.Fs) error {
	switch command {
	case resolveCommand.FullCommand():
		return runResolve(ctx, fs)
	case serveCommand.FullCommand():
		return runServe(ctx, fs)
	}

	return fmt.Errorf("unknown command %q", command)
}

func runResolve(ctx context.Context, fs afero.Fs) error {
	conf, err := parseConfig(fs, *resolveConfig)
	if err != nil {
		return err
	}

	resolver, err := geolib.NewResolver(conf.GetGeolibConfig(), geolib.ResolverOpts{
		Logger: newLogger(os.Stderr, *debug),
	})
	if err != nil {
		return err
	}

	defer resolver.Close()

	if *resolveIP != "" {
		resolver.SetIP(*resolveIP)
	}

	var result interface{}

	if *resolveProperty != "" {
		result, err = resolver.Get(ctx, *resolveProperty)
	} else {
		result, err = resolver.Data(ctx)
	}

	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(result)
}

func runServe(ctx context.Context, fs afero.Fs) error {
	conf, err := parseConfig(fs, *serveConfig)
	if err != nil {
		return err
	}

	handler, err := geolib.NewHTTPHandler(conf.GetGeolibConfig(), geolib.HTTPHandlerOpts{
		Logger: newLogger(os.Stderr, *debug),
	})
	if err != nil {
		return err
	}

	defer handler.Shutdown()

	listener, err := net.Listen("tcp", conf.GetListen())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler: wrapBasicAuth(conf, handler),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
