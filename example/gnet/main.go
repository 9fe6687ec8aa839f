// FILE: example/gnet/main.go
package main

import (
	"github.com/lixenwraith/logpipe"
	"github.com/lixenwraith/logpipe/compat"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	pipe, err := logpipe.NewBuilder().
		Directory("/var/log/gnet").
		Level(logpipe.LevelDebug).
		Build()
	if err != nil {
		panic(err)
	}
	pipe.Start()
	defer pipe.Shutdown()

	gnetAdapter := compat.NewGnetAdapter(pipe)

	// Configure gnet server with the pipeline adapter
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
