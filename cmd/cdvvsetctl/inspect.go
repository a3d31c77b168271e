package main

import (
	"encoding/binary"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/spf13/cobra"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <key>",
	Short: "Dump a key's raw causal state for debugging",
	Long: `inspect prints the live value count, the replica ids known for
key, and — per replica — the raw (base, exceptions) pair, both as
numbers and as a canonical multibase-encoded byte string (base58btc),
so two stores' dot sets can be compared byte-for-byte without reasoning
about JSON formatting.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, span := tracer.Start(cmd.Context(), "cdvvsetctl.inspect")
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

	fmt.Printf("%s: size=%d ids=%v\n", key, cdvvset.Size(clock), cdvvset.Ids(clock))
	for _, e := range clock.Entries {
		encoded, err := encodeDotSet(e.Base, e.Exceptions)
		if err != nil {
			return fmt.Errorf("encode dot set for %s: %w", e.ReplicaId, err)
		}
		fmt.Printf("  %s: base=%d exceptions=%v dotset=%s\n", e.ReplicaId, e.Base, e.Exceptions, encoded)
	}
	return nil
}

// encodeDotSet renders (base, exceptions) — the known dot set
// {1..base} ∪ exceptions — as a canonical multibase-base58btc string: a
// varint base followed by each exception as a varint, in ascending order.
func encodeDotSet(base cdvvset.Counter, exceptions []cdvvset.Counter) (string, error) {
	buf := make([]byte, 0, 8*(len(exceptions)+1))
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], base)
	buf = append(buf, scratch[:n]...)
	for _, e := range exceptions {
		n := binary.PutUvarint(scratch[:], e)
		buf = append(buf, scratch[:n]...)
	}
	return multibase.Encode(multibase.Base58BTC, buf)
}
