// Package store implements the player's state container as a one-way dispatch bus.
//
// Every state change is expressed as an [Action] value. [Reduce] is the single pure function turning the current [State] and an action into the next state;
// [Store] serializes dispatches, keeps the latest snapshot and notifies subscribers (the TUI, the HTTP remote) after each action.
//
// Slices in [State] are never shared with callers: the reducer copies what it stores and [Store.State] hands out copies, so list bookkeeping in the player can work on its own slices freely.
package store
