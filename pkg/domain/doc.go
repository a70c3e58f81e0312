/*
Package domain contains the core domain models of the tally calculator.

It defines the calculator State, the keypad Keys and Operators, the lifecycle
events used to observe a calculator, and the sentinel errors shared by the
adapters. This package is kept pure and free of I/O and persistence.

# Key Entities

  - State: DisplayValue, CurrentInput, Operator, PreviousValue and ErrorMessage.
    Output is derived from it and is the only value a UI should render.
  - Phase: the implicit machine state (idle, entering, operator_pending,
    result_displayed, error_latched) derived from the fields.
  - Key: one button press (digit, dot, operator, equals, AC, CE, backspace).
  - StateDiff: the fields changed by a key, used for notifications and streaming.
*/
package domain
