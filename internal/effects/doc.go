// Package effects renders a simulation result as concentric circle overlays
// on a map and animates them into place.
//
// The pieces, leaf to root:
//
//   - [Animator] grows one circle from radius 0 to its target with an
//     ease-out-cubic curve, one sample per frame tick.
//   - [Store] owns every circle of the current render, grouped by category,
//     plus the per-category visibility flags.
//   - [Builder] creates the circles for each category in draw order
//     (seismic, tsunami, blast, thermal, fireball, crater) and registers them.
//   - [Orchestrator] is the entry point: it clears the previous render,
//     invokes the builder, and fits the viewport after a settle delay.
//   - [VisibilityController] attaches or detaches whole categories and keeps
//     an external indicator (checkbox state) in sync.
//
// The map itself is a capability behind the [Map] interface.
package effects
