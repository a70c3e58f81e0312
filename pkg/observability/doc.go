/*
Package observability turns calculator lifecycle events into metrics and logs.

Both Metrics.Hooks and LogHooks return domain.LifecycleHooks; combine them
with domain.CombineHooks and pass the result to tally.WithLifecycleHooks.
*/
package observability
