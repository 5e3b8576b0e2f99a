// Command lumenbridge runs the video-to-lighting compositing and
// Art-Net bridge. The plugin set is fixed at compile time (every
// generator, effect, and transition registers itself via init()), so
// there is no build step to perform at startup: main just resolves
// --env and hands off to bridge.Run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"lumenbridge/pkg/bridge"

	_ "lumenbridge/pkg/effectplugin"
	_ "lumenbridge/pkg/generator"
	_ "lumenbridge/pkg/transition"
)

func main() {
	envFlag := flag.String("env", "/home/_lumenbridge/configs/env.yaml", "path to env.yaml")
	flag.Parse()

	envPath, err := filepath.Abs(*envFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("could not get absolute path of env.yaml: %w", err))
	}

	if _, err := os.Stat(envPath); err != nil {
		log.Fatal(fmt.Errorf("--env %v: %w", envPath, err))
	}

	if err := bridge.Run(envPath); err != nil {
		log.Fatal(fmt.Errorf("lumenbridge: %w", err))
	}
}
