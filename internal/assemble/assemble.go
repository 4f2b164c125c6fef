// Package assemble turns datastore entries into records, one per file.
package assemble

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/goadverts/internal/extract"
	"github.com/hyperifyio/goadverts/internal/loader"
	"github.com/hyperifyio/goadverts/internal/query"
	"github.com/hyperifyio/goadverts/internal/record"
	"github.com/hyperifyio/goadverts/internal/salary"
)

// Stats summarises one pass.
type Stats struct {
	Scanned    int // files seen
	Records    int // rows produced
	Failed     int // adverts missing both title and date
	Unreadable int // adverts that could not be read or parsed
	Sparse     int // files whose name is not an advert name
}

// Assembler builds records. The zero value is usable: default currency
// table, sequential processing, files read with loader.Read.
type Assembler struct {
	Currencies salary.Table
	// Workers > 1 extracts in parallel. Output order does not depend on it.
	Workers int
	// Read loads one file; defaults to loader.Read.
	Read func(path string) ([]byte, error)
}

// FromHTML assembles the full record for one advert body.
func FromHTML(filename string, body []byte, currencies salary.Table) (record.Record, error) {
	doc, err := query.ParseBytes(body)
	if err != nil {
		return record.Sparse(filename), err
	}
	date := extract.Date(doc)
	return record.Record{
		Filename:     filename,
		Title:        extract.Title(doc),
		Date:         date,
		Year:         extract.DeriveYear(date),
		Salary:       salary.Normalize(extract.SalaryText(doc), currencies),
		Role:         extract.Role(doc),
		Organisation: extract.Organisation(doc),
		Location:     extract.Location(doc),
	}, nil
}

type outcome struct {
	rec        record.Record
	unreadable bool
}

// Run produces one record per entry, in entry order. It only returns an
// error when ctx is cancelled; per-file problems become sparse records.
func (a *Assembler) Run(ctx context.Context, entries []loader.Entry) ([]record.Record, Stats, error) {
	currencies := a.Currencies
	if len(currencies) == 0 {
		currencies = salary.DefaultTable()
	}
	read := a.Read
	if read == nil {
		read = loader.Read
	}

	outs := make([]outcome, len(entries))
	one := func(i int) {
		e := entries[i]
		if !e.Advert {
			outs[i] = outcome{rec: record.Sparse(e.Name)}
			return
		}
		body, err := read(e.Path)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("unreadable advert")
			outs[i] = outcome{rec: record.Sparse(e.Name), unreadable: true}
			return
		}
		rec, err := FromHTML(e.Name, body, currencies)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("unparseable advert")
			outs[i] = outcome{rec: rec, unreadable: true}
			return
		}
		log.Debug().Str("file", e.Name).Bool("failed", rec.LikelyFailed()).Msg("advert processed")
		outs[i] = outcome{rec: rec}
	}

	if a.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.Workers)
		for i := range entries {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				one(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, Stats{}, err
		}
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
	} else {
		for i := range entries {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
			one(i)
		}
	}

	recs := make([]record.Record, len(outs))
	st := Stats{Scanned: len(entries), Records: len(outs)}
	for i, o := range outs {
		recs[i] = o.rec
		if !entries[i].Advert {
			st.Sparse++
		}
		if o.unreadable {
			st.Unreadable++
		}
		// Sparse rows for non-advert names are expected, not failures.
		if entries[i].Advert && o.rec.LikelyFailed() {
			st.Failed++
		}
	}
	return recs, st, nil
}
