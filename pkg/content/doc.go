/*
Package content is the document model the paste engine rewrites.

	+-----------+        +-----------+
	|  Schema   |------->| NodeType  |
	| (types)   |        | MarkType  |
	+-----+-----+        +-----------+
	      |
	+-----+-----+        +-----------+
	| Fragment  |<>----->|   Node    |
	| (children)|        | Text|Elem |
	+-----------+        +-----------+

🎯 Purpose:
- Immutable content trees: every rewrite builds new nodes, the input is never touched
- Named node and mark types created through a Schema
- Code classification (a `code` flag or membership of the `code` group)

📝 Nodes form a closed sum type. A Node is either a *Text leaf carrying an ordered
MarkSet, or an *Element with a type, attributes and a child Fragment. Callers switch
on the concrete type:

	switch n := node.(type) {
	case *content.Text:
	case *content.Element:
	}

Text offsets are counted in runes.
*/
package content
