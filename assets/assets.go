package assets

import _ "embed"

// SampleCSV is a small bank-style export used by the sample import flow,
// so a fresh install has data to look at.
//
//go:embed sample.csv
var SampleCSV string
