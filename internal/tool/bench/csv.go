// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"
	"math"

	"github.com/gocarina/gocsv"
)

// Record is a single cell of a suite result in flat form.
type Record struct {
	Test      string  `csv:"test"`
	Benchmark string  `csv:"benchmark"`
	Codec     string  `csv:"codec"`
	Value     float64 `csv:"value"`
	Delta     float64 `csv:"delta"`
}

// Records flattens the results returned by one of the suites, one record per
// benchmark and codec. Cells without a finite value are left out.
func Records(test string, results [][]Result, names, codecs []string) []Record {
	var recs []Record
	for j, row := range results {
		for i, r := range row {
			if r.R == 0 || math.IsNaN(r.R) || math.IsInf(r.R, 0) {
				continue
			}
			d := r.D
			if math.IsNaN(d) || math.IsInf(d, 0) {
				d = 0
			}
			recs = append(recs, Record{
				Test:      test,
				Benchmark: names[j],
				Codec:     codecs[i],
				Value:     r.R,
				Delta:     d,
			})
		}
	}
	return recs
}

// WriteCSV writes the records as CSV with a header line.
func WriteCSV(w io.Writer, recs []Record) error {
	return gocsv.Marshal(recs, w)
}
