// Package server wraps http.Server with graceful shutdown and env-driven
// configuration.
//
// A Server is usually built from Config and run inside an errgroup next to
// other listeners:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// Run shuts the listener down within Config.ShutdownTimeout once ctx is
// canceled. Addr reports the bound address, which is useful with ":0".
package server
