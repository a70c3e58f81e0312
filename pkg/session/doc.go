/*
Package session implements session management and persistence orchestration.

A Manager serializes every read-modify-write on one calculator session with
an in-process mutex and, when configured, a distributed lock, so HTTP, MCP and
REPL front-ends can share a store without losing key presses.
*/
package session
