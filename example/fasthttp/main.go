// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/logpipe"
	"github.com/lixenwraith/logpipe/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure the pipeline
	pipe, err := logpipe.NewBuilder().
		Directory("/var/log/fasthttp").
		Level(logpipe.LevelTrace).
		MaxQueueSize(2048).
		Build()
	if err != nil {
		panic(err)
	}
	pipe.Start()
	defer pipe.Shutdown()

	// Route server logs to a rotating file alongside the console
	fileSink := pipe.CreateDecoratedOutput("file", "timestamp")
	if fileSink != nil {
		pipe.AddSink(fileSink)
	}

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		pipe,
		compat.WithDefaultLevel(logpipe.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) int64 {
	// Custom logic to detect log levels
	// Can inspect specific fasthttp message patterns

	if strings.Contains(msg, "connection cannot be served") {
		return logpipe.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return logpipe.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
