package main

import (
	"context"
	"flag"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/web/server"
	"github.com/golang/glog"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	traceRatio := flag.Float64("trace-ratio", 0, "Fraction of renders to trace (spans are logged at -v=1)")
	flag.Parse()
	defer glog.Flush()

	glog.Infof("port: %v", *port)
	glog.Infof("trace-ratio: %v", *traceRatio)

	if err := renderer.RegisterViews(); err != nil {
		glog.Exitf("Error registering metric views: %v", err)
	}

	if *traceRatio > 0 {
		shutdown := renderer.InstallTracing(*traceRatio)
		defer shutdown(context.Background())
	}

	webServer := server.NewServer(*port)

	glog.Infof("Sphere Path Tracer Web Server")
	glog.Infof("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		glog.Exitf("Error starting server: %v", err)
	}
}
