package cli

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

	"github.com/amterp/gig/internal/api"
	"github.com/amterp/gig/internal/config"
	"github.com/amterp/ra"
	log "github.com/sirupsen/logrus"
)

const serveHost = "127.0.0.1"

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the local HTTP API with live updates")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(5260).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (will try incrementally if in use)").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int) {
	config.ConfigureLogging(log.InfoLevel)

	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	handler := api.NewHandler(app.Store, app.Settings.PeriodDays)

	// Find an available port starting from the requested one
	actualPort := findAvailablePort(port)

	server := api.NewServer(handler, app.Store, api.ServerConfig{
		Addr:     fmt.Sprintf("%s:%d", serveHost, actualPort),
		DataPath: app.Paths.DataFilePath(),
		Gatherer: app.Registry,
	})

	url := fmt.Sprintf("http://localhost:%d", actualPort)
	fmt.Printf("gig API running at %s\n", RenderURL(url+"/api/v1"))
	fmt.Printf("Metrics at %s\n", RenderURL(url+"/metrics"))
	fmt.Println("Press Ctrl+C to stop")

	go shutdownOnSignal(server)

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Fatal(err)
	}
}

func shutdownOnSignal(server *api.Server) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Server shutdown failed")
	}
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", serveHost, port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
