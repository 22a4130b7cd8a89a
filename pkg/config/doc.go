/*
Package config loads declarative paste rule files and compiles them into rules.

	            +-------------+
	            |  RuleFile   |
	            |  ([]Spec)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+
	                   |
	             Build(schema, handlers)
	                   |
	              []rule.Rule

🎯 Purpose:
- Reads rule files in YAML, JSON or HCL, picked by file extension
- Validates every rule entry before anything is compiled
- Resolves mark and node names against a content schema
- Resolves file handlers by name from a Handlers registry

🧩 Templates:
Attribute values and text replacements may reference capture groups with
$0 to $9. "$$" is a literal dollar sign. Attributes holding a template are
computed per match; all others are static.

🔍 Example:

	rules:
	  - name: mention
	    type: node
	    regexp: '@(\w+)'
	    node: mention
	    attrs:
	      id: $1
	  - name: bold
	    type: mark
	    regexp: '\*\*([^*]+)\*\*'
	    mark: strong
	    ignored_nodes: [heading]
	  - name: images
	    type: file
	    mime: image/*
	    handler: upload

The same file in HCL:

	rule "mention" {
	  type   = "node"
	  regexp = "@(\\w+)"
	  node   = "mention"
	  attrs  = { id = "$1" }
	}
*/
package config
