// Package kormarc provides parsing, modeling, and multi-tier validation
// of KORMARC bibliographic catalog records.
//
// The package is built around a small set of immutable value types:
// Leader, ControlField, DataField, Subfield, and Record. Records are
// produced by the parser (see the parser subpackage) or by a Builder,
// and are consumed by the tier validators and the TOON identifier
// generator (see the tier and toon subpackages).
//
// # Quick Start
//
//	import (
//	    km "github.com/kormarc/validator"
//	    "github.com/kormarc/validator/parser"
//	    "github.com/kormarc/validator/pipeline"
//	)
//
//	rec, err := parser.Parse(document)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipe := pipeline.Default()
//	outcome := pipe.Run(ctx, rec)
//	if !outcome.Passed {
//	    for _, f := range outcome.Findings() {
//	        fmt.Println(f.Message)
//	    }
//	}
//
// # Validation Tiers
//
// Validation runs in three independent tiers, each producing one
// ValidationResult:
//
//   - Tier 1 (structure): control field presence and formats
//   - Tier 2 (semantic): required fields and field relationships
//   - Tier 3 (policy): institution-specific cataloging rules
//
// Tier failures are data, not errors: a failing record never aborts a
// validation run. Batch validation over large collections is provided
// by the worker subpackage.
//
// # Functional Options
//
//	pipe := pipeline.New(
//	    km.WithTiers(1, 2),
//	    km.WithParallelTiers(true),
//	)
//
// # Architecture
//
// The package layout follows a pipeline design: small interfaces for
// tier validators, a registry-driven pipeline for execution, a worker
// pool for batch fan-out, and context-based cancellation throughout.
package kormarc
