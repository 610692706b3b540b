// Package manifest reads declarative language definitions and applies them
// to a registry.
//
// A manifest declares languages with their concepts, interfaces,
// annotations and primitive types, and the type tags under which they are
// registered. Manifests are written in HCL or YAML; both loaders produce the
// same format-agnostic Model, which Apply turns into language.Language
// values and registry mappings.
//
// An HCL manifest looks like this:
//
//	language "calc" {
//	  version  = "1"
//	  protocol = "2024.1"
//
//	  primitive "Colour" {
//	    tag   = "calc.Colour"
//	    codec = "string"
//	  }
//
//	  concept "Literal" {
//	    tag     = "calc.Literal"
//	    extends = "Expression"
//	    property "value" {
//	      type = "Integer"
//	    }
//	  }
//	}
//
// Type names resolve against the declaring language first, then against the
// builtins (Node, INamed, String, Integer, Boolean) and the M3 language of
// the same protocol version.
package manifest
