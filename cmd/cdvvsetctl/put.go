package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
)

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Record a write under --replica-id",
	Args:  cobra.ExactArgs(2),
	RunE:  runPut,
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cdvvsetctl.put")
	defer span.End()

	key, value := args[0], args[1]
	id := replicaID()
	log := telemetryLogger(ctx).With(zap.String("key", key), zap.String("replica_id", id))

	stored, ok, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}

	var causal cdvvset.Causal[string]
	if ok {
		causal = cdvvset.Join(stored)
	}
	client := cdvvset.New[string, string](causal, []string{value})

	var updated cdvvset.Clock[string, string]
	var arity string
	if ok {
		updated, err = cdvvset.Update3(client, stored, id)
		arity = "3"
	} else {
		updated, err = cdvvset.Update2(client, id)
		arity = "2"
	}
	if err != nil {
		log.Warn("update rejected", zap.Error(err))
		return fmt.Errorf("update %s: %w", key, err)
	}
	metr.ObserveUpdate(arity)

	if err := store.Put(key, updated); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	metr.SetClockSize(key, cdvvset.Size(updated))

	log.Debug("write recorded", zap.Int("size", cdvvset.Size(updated)))
	fmt.Printf("%s: %d live value(s)\n", key, cdvvset.Size(updated))
	return nil
}
