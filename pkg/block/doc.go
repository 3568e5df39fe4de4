// Package block defines the block tree vocabulary produced by the document editor.
//
// A document is an ordered, flat slice of [Block] values. Only [Layout] nests
// further content (through its [LayoutArea] columns); every other block holds
// inline children or nothing at all.
//
// # Variants
//
// [Block] is a sealed interface. The concrete variants are:
//
//   - [TextLeaf]: terminal inline text with optional bold/italic/underline marks
//   - [Paragraph] and [Heading]: inline containers
//   - [Divider]: structural punctuation, never rendered as content
//   - [Blockquote] and [Code]: together they form the title-marker pattern
//   - [Component]: a named widget invocation with opaque props
//   - [Layout] and [LayoutArea]: multi-column layouts with fractional weights
//   - [Unknown]: any node type this package does not understand, kept verbatim
//
// Type switches over Block should handle every variant; [Kind] mirrors the wire
// discriminator for code that prefers to switch on a value.
//
// # Shape Matching
//
// [TitleMarker] recognizes the quote → code → text authoring convention that
// opens a named section. [IsEmptyParagraph] recognizes the stray empty
// paragraphs editors leave between sections. Matchers never fail: a block that
// does not have the expected shape simply does not match.
//
// # Wire Format
//
// [Decode] and [Marshal] speak the portable editor JSON: objects with a "type"
// discriminator and a "children" array. Text leaves carry no type, only a
// "text" field plus optional marks:
//
//	[
//	  {"type": "paragraph", "children": [{"text": ""}]},
//	  {"type": "blockquote", "children": [
//	    {"type": "code", "children": [{"text": "Describe"}]}
//	  ]},
//	  {"type": "paragraph", "children": [{"text": "hello", "bold": true}]},
//	  {"type": "divider", "children": [{"text": ""}]},
//	  {"type": "component-block", "component": "form", "props": {}, "children": []},
//	  {"type": "layout", "layout": [1, 2, 1], "children": [
//	    {"type": "layout-area", "children": [...]}
//	  ]}
//	]
//
// [FromMarkdown] builds the same tree from a Markdown source, which is handy
// for fixtures and hand-authored previews.
package block
