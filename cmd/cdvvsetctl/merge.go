package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
	"github.com/aidenlippert/zerostate/libs/cdvvset/internal/metrics"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <key> <other-file>",
	Short: "Sync the stored clock for key with a clock loaded from a JSON file",
	Long: `merge simulates a gossiped remote write: other-file holds a
JSON-encoded cdvvset.Clock, as produced by this store's own persistence
format, and is synced against whatever is currently stored for key.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cdvvsetctl.merge")
	defer span.End()

	key, otherPath := args[0], args[1]
	log := telemetryLogger(ctx).With(zap.String("key", key))

	local, _, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}

	data, err := os.ReadFile(otherPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", otherPath, err)
	}
	var remote cdvvset.Clock[string, string]
	if err := json.Unmarshal(data, &remote); err != nil {
		return fmt.Errorf("decode %s: %w", otherPath, err)
	}

	start := time.Now()
	merged := cdvvset.Sync(local, remote)
	elapsed := time.Since(start)

	outcome := syncOutcome(local, remote)
	metr.ObserveSync(outcome, elapsed.Seconds())

	if err := store.Put(key, merged); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	metr.SetClockSize(key, cdvvset.Size(merged))

	log.Debug("merged", zap.String("outcome", string(outcome)), zap.Int("size", cdvvset.Size(merged)))
	fmt.Printf("%s: merged (%s), %d live value(s)\n", key, outcome, cdvvset.Size(merged))
	return nil
}

// syncOutcome classifies a Sync call the way internal/metrics' sync_total
// counter labels it, for logging and metrics alike.
func syncOutcome(local, remote cdvvset.Clock[string, string]) metrics.SyncOutcome {
	switch {
	case cdvvset.Equal(local, remote):
		return metrics.SyncEqual
	case cdvvset.Less(local, remote):
		return metrics.SyncDominatedLeft
	case cdvvset.Less(remote, local):
		return metrics.SyncDominatedRight
	default:
		return metrics.SyncConcurrent
	}
}
