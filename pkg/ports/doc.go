/*
Package ports defines the driven ports (interfaces) around the calculator core.

# Key Interfaces

  - KeyApplier: applies key presses to a state without owning it.
  - StateStore: persists and loads session states.
  - DistributedLocker: serializes access to a session across processes.
*/
package ports
