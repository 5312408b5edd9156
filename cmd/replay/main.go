package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	persistlog "buildgrid.io/internal/persistence/log"
	"buildgrid.io/internal/sim/tuning"
	"buildgrid.io/internal/sim/world"
	"buildgrid.io/internal/sim/world/terrain/brush"
)

func main() {
	var (
		dataDir    = flag.String("data", "./data", "runtime data directory")
		worldID    = flag.String("world", "world_1", "world id")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml used by the recorded run (default: <configs>/tuning.yaml)")
		mapPath    = flag.String("map", "", "path to map.yaml used by the recorded run (default: <configs>/map.yaml)")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}

	mp := strings.TrimSpace(*mapPath)
	if mp == "" {
		mp = filepath.Join(*configDir, "map.yaml")
		if _, err := os.Stat(mp); err != nil {
			mp = ""
		}
	}
	terrain, err := brush.Load(mp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load map:", err)
		os.Exit(1)
	}

	newWorld := func() *world.World {
		return world.New(world.ConfigFromTuning(*worldID, tune), terrain)
	}

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	res, err := replay(worldDir, newWorld, *toTick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: world=%s sessions=%d checked=%d ticks\n", *worldID, res.Sessions, res.Checked)
}

type replayResult struct {
	Sessions int
	Checked  uint64
}

var errStop = errors.New("stop")

// replay re-steps every recorded tick through a fresh world and compares
// digests. A tick-0 entry after later ticks marks a server restart and
// starts a new world.
func replay(worldDir string, newWorld func() *world.World, toTick uint64) (replayResult, error) {
	var res replayResult
	var w *world.World

	err := persistlog.ReadTicks(worldDir, func(entry world.TickLogEntry) error {
		if w == nil || (entry.Tick == 0 && w.CurrentTick() > 0) {
			w = newWorld()
			res.Sessions++
		}
		if toTick != 0 && entry.Tick > toTick {
			return errStop
		}
		if entry.Tick != w.CurrentTick() {
			return fmt.Errorf("tick mismatch: want=%d got=%d", w.CurrentTick(), entry.Tick)
		}

		joins := make([]world.JoinRequest, 0, len(entry.Joins))
		for _, j := range entry.Joins {
			joins = append(joins, world.JoinRequest{Name: j.Name})
		}
		cmds := make([]world.CommandEnvelope, 0, len(entry.Commands))
		for _, rc := range entry.Commands {
			cmds = append(cmds, world.CommandEnvelope{ActorID: rc.ActorID, Cmd: rc.Cmd})
		}

		tick, gotDigest := w.StepOnce(joins, entry.Leaves, cmds, entry.Admin)
		if tick != entry.Tick {
			return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d", tick, entry.Tick)
		}
		res.Checked++
		if gotDigest != entry.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, gotDigest, entry.Digest)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return res, err
	}
	if res.Sessions == 0 {
		return res, fmt.Errorf("no tick logs found under %s", worldDir)
	}
	return res, nil
}
