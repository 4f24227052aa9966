// Package scene resolves a reaction record into a renderer-agnostic scene
// description.
//
// [Resolver.Resolve] is a pure function of (record, view level, progress).
// It reads the record's rules for the level, falls back to [DefaultRules]
// when they are absent or unusable, and emits one [Entity] per slot in rule
// order. Computed apparatus (tripods, delivery tubes, particle clouds and
// atom arrangements) carry their generated [Part]s and [Instance]s.
//
// Resolution never fails and never mutates the record.
package scene
