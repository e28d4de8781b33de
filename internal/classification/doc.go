// Package classification defines the closed set of source folder intents and
// the routing from each intent to its required delivery actions. Routing is a
// fixed lookup, not string dispatch: a mistyped folder name never classifies,
// so it can never be silently misrouted.
package classification
