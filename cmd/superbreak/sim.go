package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak/sim"
)

var (
	flagSimTicks  int
	flagSimDT     float64
	flagSimFollow bool
	flagSimIn     string
	flagSimOut    string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless simulation",
	Long: `Advance a session without a terminal and print a summary.

The paddle is parked in the middle of the field unless --follow is set,
in which case it tracks the ball. Sessions can be resumed from and saved
to msgpack snapshots, and two runs from the same snapshot print the same
state hash.

Examples:
  superbreak sim --ticks 6000 --follow
  superbreak sim --ticks 600 --out state.msgpack
  superbreak sim --in state.msgpack --ticks 600`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Number of frames to simulate")
	simCmd.Flags().Float64Var(&flagSimDT, "dt", 1.0/60, "Frame delta in seconds")
	simCmd.Flags().BoolVar(&flagSimFollow, "follow", false, "Move the paddle under the ball every frame")
	simCmd.Flags().StringVar(&flagSimIn, "in", "", "Resume from a snapshot file")
	simCmd.Flags().StringVar(&flagSimOut, "out", "", "Write the final snapshot to a file")
}

func runSim(_ *cobra.Command, _ []string) {
	if flagSimTicks < 0 || flagSimDT < 0 {
		fatalf("--ticks and --dt must not be negative")
	}

	gameCfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}

	logger, closer := openLogger("superbreak-sim")
	defer closer.Close()

	session, err := sim.NewSession(gameCfg, sim.WithLogger(logger))
	if err != nil {
		fatalf("%v", err)
	}

	if flagSimIn != "" {
		if err := restoreSnapshot(session, flagSimIn); err != nil {
			fatalf("%v", err)
		}
	}

	width := gameCfg.World.Width
	pointer := session.Paddle().CX
	var hits, paddleHits int
	for range flagSimTicks {
		if flagSimFollow {
			pointer = core.ClampF(session.Ball().Pos.X, 0, width)
		}
		res := session.Tick(sim.Input{Delta: flagSimDT, PointerX: pointer})
		hits += len(res.Hits)
		if res.PaddleHit {
			paddleHits++
		}
	}

	snap := session.Snapshot()
	if flagSimOut != "" {
		if err := writeSnapshot(flagSimOut, snap); err != nil {
			fatalf("%v", err)
		}
	}

	res := session.Frame()
	fmt.Printf("Ticks:       %d\n", session.Ticks())
	fmt.Printf("Score:       %d\n", res.Score)
	fmt.Printf("Blocks:      %d/%d\n", res.Destroyed, res.Total)
	fmt.Printf("Block hits:  %d\n", hits)
	fmt.Printf("Paddle hits: %d\n", paddleHits)
	fmt.Printf("Broke out:   %t\n", res.PartialWin)
	fmt.Printf("Cleared:     %t\n", res.FullWin)
	if n := session.DegenerateNormals(); n > 0 {
		fmt.Printf("Skipped reflections: %d\n", n)
	}
	fmt.Printf("State hash:  %016x\n", snap.Hash())
}

func restoreSnapshot(session *sim.Session, path string) error {
	// #nosec G304 -- path comes from the user's own flag
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	snap, err := sim.DecodeSnapshot(f)
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	if err := session.Restore(snap); err != nil {
		return fmt.Errorf("restoring snapshot %s: %w", path, err)
	}
	return nil
}

func writeSnapshot(path string, snap sim.Snapshot) error {
	// #nosec G304 -- path comes from the user's own flag
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := sim.EncodeSnapshot(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return f.Close()
}
