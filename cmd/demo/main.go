// FILE: cmd/demo/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/logpipe"
)

const configFile = "demo_config.toml"

// Example TOML content
var tomlContent = `
# Example demo_config.toml
[logpipe]
  level = -8 # Trace
  directory = "./demo_logs"
  file_name = "demo"
  extension = "log"
  enable_console = true
  console_target = "stdout"
  max_queue_size = 4096
  batch_size = 64
  flush_interval_ms = 250
  max_file_size_kb = 64 # Force frequent rotation
  max_file_count = 3
`

func main() {
	fmt.Println("--- Pipeline Demo ---")

	// Create dummy config file
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := logpipe.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	pipe, err := logpipe.NewManagerWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create pipeline: %v\n", err)
		os.Exit(1)
	}
	pipe.Start()
	fmt.Println("Pipeline started.")

	// Rotating file output with timestamp and format decoration
	fileSink := pipe.CreateDecoratedOutput("file", "format")
	if fileSink != nil {
		pipe.AddSink(fileSink)
	}

	// Warnings and above also go to stderr, filtered at the sink
	alertSink := logpipe.NewFilterDecorator(
		logpipe.NewConsoleSinkTo("stderr"),
		func(rec logpipe.Record) bool { return rec.Level >= logpipe.LevelWarn },
	)
	pipe.AddSink(alertSink)

	// Optional NATS fan-out
	if url := os.Getenv("DEMO_NATS_URL"); url != "" {
		pipe.AddSink(logpipe.NewNATSSink(url, "logpipe.demo"))
		fmt.Printf("NATS sink added for %s\n", url)
	}

	// --- Logging ---
	pipe.Debug("demo starting", "sinks", pipe.SinkCount())
	pipe.Info("Application starting...")
	pipe.Warn("Potential issue detected", "threshold", 0.95)
	pipe.Errorf("an error occurred, code=%d", 500)

	// Concurrent producers
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for n := 0; n < 250; n++ {
				pipe.Infof("producer %d message %d", id, n)
			}
		}(i)
	}
	wg.Wait()
	fmt.Println("Producers finished.")

	// Give the consumer a moment, then flush explicitly
	pipe.WaitForCompletion(2 * time.Second)
	if err := pipe.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}

	// --- Metrics ---
	snapshot, _ := json.MarshalIndent(pipe.Metrics(), "", "  ")
	fmt.Printf("Metrics:\n%s\n", snapshot)

	// --- Shutdown ---
	fmt.Println("Shutting down pipeline...")
	if err := pipe.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline shutdown error: %v\n", err)
	} else {
		fmt.Println("Pipeline shutdown complete.")
	}

	fmt.Println("--- Demo Finished ---")
	fmt.Println("Check log files in './demo_logs'.")
}
