// Package shutdown provides graceful shutdown for the relay server.
//
// A Handler waits for SIGINT, SIGTERM or an explicit Trigger and then runs
// registered hooks in reverse registration order under a shared timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(15*time.Second, logger)
//	h.OnShutdown("http", srv.Shutdown)
//	if err := h.Wait(); err != nil { ... }
package shutdown
