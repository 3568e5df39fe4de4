// Package htmlsink paints a [plan.Plan] as HTML.
//
// The output mirrors how a landing page presents a segmented document:
//
//   - pre-anchor sections become collapsible <details> with the title as <summary>
//   - the anchor becomes <div class="form-anchor" data-component="...">
//   - post-anchor sections become <section id="..."> with no visible heading
//   - boxed groups share one <div class="boxed">; breakout groups get their own
//     <div class="breakout">
//   - layouts become CSS grids sized by their weights, each area aligned by
//     the resolved column alignment
//
// Basic usage:
//
//	out, err := htmlsink.Render(p, htmlsink.WithStandalone("Pricing"))
//
// Without [WithStandalone] the result is a single <div class="blockplan">
// fragment suitable for embedding.
package htmlsink
