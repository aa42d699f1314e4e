// Package manifest loads and validates Bible Event Graph manifests.
//
// # Overview
//
// A manifest is a JSON document with a single "events" object mapping event
// ids to events. Each event names its parent through parent_id, so the whole
// document describes a forest: events with a null parent_id are roots, and
// every other event hangs below the event it references.
//
//	{
//	  "events": {
//	    "creation": {"id": "creation", "title": "Creation", "parent_id": null,
//	                 "attributes": {"order": ["1"]}},
//	    "eden":     {"id": "eden", "title": "Garden of Eden", "parent_id": "creation",
//	                 "attributes": {"order": ["1"]}}
//	  }
//	}
//
// # Validation
//
// Validate checks a decoded document and reports every problem it can find in
// one pass. Problems are returned as Issues in a Result rather than as Go
// errors: a manifest with errors must be rejected, warnings are advisory.
// Only I/O and JSON syntax failures (ReadError, ParseError) surface as errors,
// and those come from Load and Decode, never from Validate.
//
// # Ordering
//
// The optional "order" attribute holds a single digits-only string used to
// sort siblings for display. Build turns a valid document into a Forest whose
// Children are already sorted the way the site's tree view sorts them.
package manifest
