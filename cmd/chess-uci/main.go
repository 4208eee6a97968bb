// Command chess-uci runs the engine as a UCI process on standard input
// and output.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/gavlegoat/chess/internal/engine"
	"github.com/gavlegoat/chess/internal/storage"
	"github.com/gavlegoat/chess/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dataDir    = flag.String("data", "", "override the engine data directory")
	noStore    = flag.Bool("nostore", false, "disable the persistent magic cache")
)

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	var store *storage.Store
	if !*noStore {
		var err error
		if *dataDir != "" {
			store, err = storage.OpenAt(*dataDir)
		} else {
			store, err = storage.Open()
		}
		if err != nil {
			log.Printf("magic cache unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	searcher := engine.NewAlphaBetaSearcher(engine.NewBasicEvaluator())
	protocol := uci.New(searcher, store, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Fatalf("uci loop failed: %v", err)
	}
}
