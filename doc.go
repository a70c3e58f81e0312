/*
Package tally is the state core of a pocket calculator.

It turns keypad presses (digits, decimal point, the four operators, equals,
clear and backspace) into a small serializable state and the single Output
string a display should show. Arithmetic is decimal, so 0.1 + 0.2 is 0.3, and
every numeral is capped at 18 characters. Failures such as division by zero
latch an error message that only ClearAll removes.

# Usage

A Calculator owns its state and is the simplest way in:

	c := tally.NewCalculator()
	c.InputDigit("5")
	c.SetOperator(domain.OpAdd)
	c.InputDigit("3")
	c.CalculateResult()
	fmt.Println(c.Output()) // 8

Services that keep many calculators in a store use Engine.Apply, which works
on a copy of a persisted domain.State:

	eng := tally.New(tally.WithLogger(logger))
	keys, _ := domain.ParseKeys("10 ÷ 4 =")
	next, err := eng.Apply(ctx, state, keys...)

# Observability

LifecycleHooks report every key, every state change (as a StateDiff), every
evaluation and every latched error. pkg/observability turns them into
Prometheus counters and the HTTP adapter streams the diffs over SSE.

# Adapters

  - pkg/session: per-session locking over a ports.StateStore.
  - pkg/adapters/memory, pkg/adapters/file, pkg/adapters/redis: stores.
  - pkg/adapters/http: REST + SSE.
  - pkg/adapters/mcp: Model Context Protocol tools.
  - pkg/runner: line-oriented REPL used by the tally CLI.
*/
package tally
