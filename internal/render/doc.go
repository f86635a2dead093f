// Package render materializes a comparison.Comparison into two annotated panels plus two summary values.
//
// A Renderer owns five sinks: the left and right Panels, the connector Overlay, and two TextTargets for the summary scalars. A render cycle is
//
//	r.Reset()
//	r.RenderLeft(c)
//	r.RenderRight(c)
//	r.UpdateSummary(c)
//	r.DrawConnectors(c.Matches)
//
// which Render runs in one call. Each operation may also be invoked on its own. Every token becomes exactly one Unit, appended in document order, carrying
// the token's exact text, its index, one category, and whether whitespace must be displayed literally.
//
// Renderers are not safe for concurrent use, and nothing else may mutate their sinks while a cycle runs. Sinks are implemented by view packages (see
// htmlview and termview).
package render
