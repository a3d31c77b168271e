package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
	"github.com/aidenlippert/zerostate/libs/cdvvset/internal/metrics"
)

var resolvePolicy string

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>",
	Short: "Collapse a key's siblings with a resolver (lww and reconcile persist the result)",
	Long: `resolve applies one of three resolvers to the clock stored for
key: "last" picks a single winning value by lexicographic comparison,
"lww" does the same but also rewrites the stored clock to drop the other
siblings, and "reconcile" combines every sibling into one value (numeric
sum if every sibling parses as a number, otherwise string concatenation).`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolvePolicy, "policy", "last", "resolver to apply: last, lww, or reconcile")
}

// lexLE is the demo "a is no greater than b" predicate last/lww fold with.
func lexLE(a, b string) bool { return a <= b }

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cdvvsetctl.resolve")
	defer span.End()

	key := args[0]
	log := telemetryLogger(ctx).With(zap.String("key", key), zap.String("policy", resolvePolicy))

	clock, ok, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("resolve %s: no such key", key)
	}

	switch resolvePolicy {
	case "last":
		winner, origin, ok := cdvvset.FindEntry(lexLE, clock)
		if !ok {
			return fmt.Errorf("resolve %s: %w", key, cdvvset.ErrEmptyClock)
		}
		metr.ObserveResolver(metrics.ResolverLast, resolverOrigin(origin))
		fmt.Printf("%s: %s\n", key, winner)

	case "lww":
		_, origin, ok := cdvvset.FindEntry(lexLE, clock)
		if !ok {
			return fmt.Errorf("resolve %s: %w", key, cdvvset.ErrEmptyClock)
		}
		resolved, err := cdvvset.LWW(lexLE, clock)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}
		if err := store.Put(key, resolved); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		metr.ObserveResolver(metrics.ResolverLWW, resolverOrigin(origin))
		metr.SetClockSize(key, cdvvset.Size(resolved))
		log.Debug("lww resolved", zap.Int("size", cdvvset.Size(resolved)))
		fmt.Printf("%s: %s\n", key, cdvvset.Values(resolved)[0])

	case "reconcile":
		resolved, err := cdvvset.Reconcile(reconcileValues, clock)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}
		if err := store.Put(key, resolved); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		metr.ObserveResolver(metrics.ResolverReconcile, metrics.OriginAnonymous)
		metr.SetClockSize(key, cdvvset.Size(resolved))
		log.Debug("reconciled", zap.Int("size", cdvvset.Size(resolved)))
		fmt.Printf("%s: %s\n", key, cdvvset.Values(resolved)[0])

	default:
		return fmt.Errorf("resolve %s: unknown policy %q (want last, lww, or reconcile)", key, resolvePolicy)
	}
	return nil
}

// reconcileValues sums every sibling if all of them parse as a float64,
// otherwise joins them with "+" — a demo policy, not a general-purpose one.
func reconcileValues(values []string) string {
	sum := 0.0
	allNumeric := len(values) > 0
	for _, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			allNumeric = false
			break
		}
		sum += n
	}
	if allNumeric {
		return strconv.FormatFloat(sum, 'g', -1, 64)
	}
	return strings.Join(values, "+")
}

// resolverOrigin maps a cdvvset.Origin onto the resolver_total metric's
// origin label.
func resolverOrigin(origin cdvvset.Origin[string]) metrics.ResolverOrigin {
	if origin.IsAnonymous() {
		return metrics.OriginAnonymous
	}
	return metrics.OriginEntry
}
