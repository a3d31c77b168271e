package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the resolved siblings and causal summary for a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	_, span := tracer.Start(cmd.Context(), "cdvvsetctl.get")
	defer span.End()

	key := args[0]
	clock, ok, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		fmt.Printf("%s: not found\n", key)
		return nil
	}

	fmt.Printf("%s: %d live value(s)\n", key, cdvvset.Size(clock))
	for _, v := range cdvvset.Values(clock) {
		fmt.Printf("  - %s\n", v)
	}
	fmt.Println("causal summary:")
	for _, ce := range cdvvset.Join(clock) {
		fmt.Printf("  %s: base=%d exceptions=%v\n", ce.ReplicaId, ce.Base, ce.Exceptions)
	}
	return nil
}
