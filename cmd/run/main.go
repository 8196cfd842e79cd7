package main

import "github.com/zintix-labs/measurelab/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeTabulator, cfg.pprofmode)
}
