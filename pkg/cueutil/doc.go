// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step CUE parsing pattern used by the
// capsulefile and config packages:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed capsulefile_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecodeString[Capsulefile](
//	    schema,
//	    data,
//	    "#Capsulefile",
//	    cueutil.WithFilename("capsulefile.cue"),
//	)
//	if err != nil {
//	    return nil, err // error includes the CUE path to the bad value
//	}
//	return result.Value, nil
package cueutil
