// Package buildlog describes a completed native build: compiled objects,
// link scripts and the targets they produce.
//
// The model mirrors the JSON build log written by the cmake log extractor:
//
//	{
//	  "objects": [{"abs_path": "...", "name": "...", "defined_symbols": [{"name": "..."}], "undefined_symbols": [...]}],
//	  "scripts": [{"abs_path": "...", "target": {"name": "...", "abs_path": "...", "dependencies": [...], "target_type": 0, ...}}],
//	  "compile": ["..."]
//	}
//
// Values are produced once by Load and are read-only afterwards; the
// resolver and collector packages only build indices over them.
package buildlog
