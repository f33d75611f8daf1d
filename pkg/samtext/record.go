// Package samtext streams SAM text through typed record transforms:
// each alignment line is decoded into a Record, passed through a filter
// chain that may mutate or drop it, and re-encoded. Header lines pass
// through untouched.
package samtext

import (
	"fmt"
	"strconv"
	"strings"
)

// FLAG bits used by the filters.
const (
	FlagUnmapped = 0x4
)

// MapqUnavailable is the MAPQ value aligners emit when the mapping
// quality is not available.
const MapqUnavailable = 255

// Record is one SAM alignment line: the eleven mandatory fields, typed
// where the filters mutate them, plus the optional tags verbatim.
type Record struct {
	QName string
	Flag  int
	RName string
	Pos   int
	MapQ  int
	Cigar string
	RNext string
	PNext int
	TLen  int
	Seq   string
	Qual  string
	Tags  []string
}

// Unmapped reports whether the segment-unmapped FLAG bit is set.
func (r *Record) Unmapped() bool {
	return r.Flag&FlagUnmapped != 0
}

// ParseRecord decodes one alignment line. Lines with fewer than the
// eleven mandatory fields are rejected.
func ParseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 11 {
		return nil, fmt.Errorf("alignment has %d fields, want at least 11", len(fields))
	}

	rec := &Record{
		QName: fields[0],
		RName: fields[2],
		Cigar: fields[5],
		RNext: fields[6],
		Seq:   fields[9],
		Qual:  fields[10],
	}
	if len(fields) > 11 {
		rec.Tags = fields[11:]
	}

	var err error
	if rec.Flag, err = parseIntField("FLAG", fields[1]); err != nil {
		return nil, err
	}
	if rec.Pos, err = parseIntField("POS", fields[3]); err != nil {
		return nil, err
	}
	if rec.MapQ, err = parseIntField("MAPQ", fields[4]); err != nil {
		return nil, err
	}
	if rec.PNext, err = parseIntField("PNEXT", fields[7]); err != nil {
		return nil, err
	}
	if rec.TLen, err = parseIntField("TLEN", fields[8]); err != nil {
		return nil, err
	}
	return rec, nil
}

// String re-encodes the record as a SAM line.
func (r *Record) String() string {
	fields := make([]string, 0, 11+len(r.Tags))
	fields = append(fields,
		r.QName,
		strconv.Itoa(r.Flag),
		r.RName,
		strconv.Itoa(r.Pos),
		strconv.Itoa(r.MapQ),
		r.Cigar,
		r.RNext,
		strconv.Itoa(r.PNext),
		strconv.Itoa(r.TLen),
		r.Seq,
		r.Qual,
	)
	fields = append(fields, r.Tags...)
	return strings.Join(fields, "\t")
}

func parseIntField(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad %s field %q", name, s)
	}
	return v, nil
}
