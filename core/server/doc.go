// Package server runs an http.Handler with graceful shutdown and production
// timeouts.
//
// # Basic Usage
//
//	srv := server.New("127.0.0.1:8080",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(logger),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// Start binds the listener before serving, so bind errors are returned
// directly. Ready is closed once the listener is bound and Addr reports the
// actual address, which makes ":0" usable in tests.
//
// # Configuration
//
// Config can be populated from the environment with core/config:
//
//	type AppConfig struct {
//		Server server.Config
//	}
//
//	srv, err := server.NewFromConfig(cfg.Server)
package server
