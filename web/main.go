package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	// Parse command line flags, falling back to RAYTRACER_* and the .env file
	cfg := config.Default()
	fs := config.NewFlagSet("web", &cfg)
	port := fs.Int("port", 8080, "Port to serve on")
	if err := config.Load(fs, &cfg, os.Args[1:], os.LookupEnv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	// Create and start web server
	webServer := server.NewServer(*port, cfg.ScenesDir)

	if cfg.S3.Enabled() {
		publisher, err := imageio.NewS3Publisher(cfg.S3, log.Default())
		if err != nil {
			log.Printf("Error configuring S3: %v", err)
			os.Exit(1)
		}
		webServer.SetPublisher(publisher, cfg.S3Prefix)
		log.Printf("Publishing renders to bucket %s", cfg.S3.Bucket)
	}

	log.Printf("Sphere Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
