package main

import (
	"flag"
	"log"

	"github.com/mogaika/mdx_browser/config"
	"github.com/mogaika/mdx_browser/viewer"
	"github.com/mogaika/mdx_browser/web"
)

func main() {
	var addr, model, cfgpath, webdir string
	var fps, speed float64
	flag.StringVar(&addr, "i", "", "Address of server (overrides config)")
	flag.StringVar(&model, "model", "", "Path to model document (.mdx.json)")
	flag.StringVar(&cfgpath, "config", "", "Path to yaml config file")
	flag.StringVar(&webdir, "web", "", "Path to web client files (overrides config)")
	flag.Float64Var(&fps, "fps", 0, "Playback frames per second (overrides config)")
	flag.Float64Var(&speed, "speed", 0, "Playback speed multiplier (overrides config)")
	flag.Parse()

	if cfgpath != "" {
		if err := config.LoadFromFile(cfgpath); err != nil {
			log.Fatal(err)
		}
	}

	cfg := config.Get()
	if addr != "" {
		cfg.ListenAddr = addr
	}
	if webdir != "" {
		cfg.WebDir = webdir
	}
	if fps > 0 {
		cfg.PlaybackFPS = fps
	}
	if speed > 0 {
		cfg.PlaybackSpeed = speed
	}
	config.Set(cfg)

	v := viewer.NewViewer()
	if model != "" {
		if err := v.LoadModelFile(model); err != nil {
			log.Fatal(err)
		}
		v.SetFrameRate(cfg.PlaybackFPS)
		v.SetSpeed(cfg.PlaybackSpeed)
	} else {
		log.Printf("[main] no model given, waiting for /upload/model")
	}

	if err := web.StartServer(cfg.ListenAddr, v, cfg.WebDir); err != nil {
		log.Fatal(err)
	}
}
