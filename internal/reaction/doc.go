// Package reaction defines the reaction record consumed by the scene engine.
//
// A [Record] holds reactants, products, a normalized activation energy and
// three independently optional rule containers, one per [ViewLevel]:
//
//   - MacroView: lab apparatus layout
//   - MicroView: particle clouds
//   - NanoView: atom arrangements
//
// [VisualRules] map slot names to an [Apparatus] in document order. Rules are
// replaced wholesale with [Record.SetRules]; there is no field-level patching.
//
// Records are validated at ingestion with [Record.Validate] and
// [ValidateAll], never per frame.
package reaction
