package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperifyio/goadverts/internal/loader"
	"github.com/hyperifyio/goadverts/internal/record"
)

type advert struct {
	name     string
	title    string
	date     string
	salary   string
	location string
}

func (a advert) html() string {
	var b bytes.Buffer
	b.WriteString("<html><body>")
	if a.title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>", a.title)
	}
	b.WriteString("<h3>Example University - Faculty</h3><table>")
	if a.date != "" {
		fmt.Fprintf(&b, "<tr><td>Placed on:</td><td>%s</td></tr>", a.date)
	}
	if a.salary != "" {
		fmt.Fprintf(&b, "<tr><th>Salary:</th><td>%s</td></tr>", a.salary)
	}
	if a.location != "" {
		fmt.Fprintf(&b, "<tr><th>Location:</th><td>%s</td></tr>", a.location)
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

// corpus writes adverts to a temp datastore. Entries whose title and date
// are both empty are the deliberate parse failures.
func corpus(t *testing.T) (string, []advert, int) {
	t.Helper()
	dir := t.TempDir()
	ads := []advert{
		{name: "AAA001", title: "Software Engineer", date: "01/05/2023", salary: "£30,000 - £40,000", location: "Leeds"},
		{name: "AAA002", title: "Data Scientist", date: "2021-11-03", salary: "€50,000"},
		{name: "AAA003"},
		{name: "BBB004.html", title: "Lecturer", date: "15/09/2019"},
		{name: "BBB005", salary: "£25,000"},
		{name: "CCC006", title: "Research Engineer", salary: "Grade 6 (£8/hour)"},
	}
	failed := 0
	for _, a := range ads {
		if a.title == "" && a.date == "" {
			failed++
		}
		if err := os.WriteFile(filepath.Join(dir, a.name), []byte(a.html()), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Index</h1>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir, ads, failed
}

func runDir(t *testing.T, dir string, a *Assembler) ([]record.Record, Stats) {
	t.Helper()
	entries, err := loader.List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	recs, st, err := a.Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return recs, st
}

func TestRun_EndToEndCounts(t *testing.T) {
	dir, ads, failed := corpus(t)
	recs, st := runDir(t, dir, &Assembler{})

	n := len(ads) + 1 // plus index.html
	if len(recs) != n || st.Records != n || st.Scanned != n {
		t.Fatalf("expected %d rows, got recs=%d stats=%+v", n, len(recs), st)
	}
	if st.Failed != failed {
		t.Fatalf("Failed=%d, want %d", st.Failed, failed)
	}
	if st.Sparse != 1 || st.Unreadable != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	first := recs[0]
	if first.Filename != "AAA001" {
		t.Fatalf("first filename = %q", first.Filename)
	}
	if y, _ := first.Year.Get(); y != "2023" {
		t.Fatalf("year = %q", y)
	}
	if !first.Salary.Found || first.Salary.Value != 35000 {
		t.Fatalf("salary = %+v", first.Salary)
	}
	if y, _ := recs[1].Year.Get(); y != "2021" {
		t.Fatalf("iso year = %q", y)
	}
	if recs[5].Salary.Found {
		t.Fatalf("hourly salary should be missing: %+v", recs[5].Salary)
	}
}

func TestRun_NonAdvertNameIsSparse(t *testing.T) {
	dir, _, _ := corpus(t)
	recs, _ := runDir(t, dir, &Assembler{})
	last := recs[len(recs)-1]
	if last.Filename != "index.html" {
		t.Fatalf("expected index.html last, got %q", last.Filename)
	}
	row := last.Row("MISSING")
	for i, c := range row[1:] {
		if c != "MISSING" {
			t.Fatalf("column %s = %q, want missing", record.Columns[i+1], c)
		}
	}
}

func TestRun_WorkersDoNotChangeOutput(t *testing.T) {
	dir, _, _ := corpus(t)
	seq, seqStats := runDir(t, dir, &Assembler{})
	par, parStats := runDir(t, dir, &Assembler{Workers: 4})
	if seqStats != parStats {
		t.Fatalf("stats differ: %+v vs %+v", seqStats, parStats)
	}
	var a, b bytes.Buffer
	if err := record.WriteCSV(&a, record.ToTable(seq, "")); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if err := record.WriteCSV(&b, record.ToTable(par, "")); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("parallel output differs from sequential")
	}
}

func TestRun_UnreadableAdvert(t *testing.T) {
	entries := []loader.Entry{
		{Name: "AAA001", Path: "AAA001", Advert: true},
		{Name: "AAA002", Path: "AAA002", Advert: true},
	}
	a := &Assembler{Read: func(path string) ([]byte, error) {
		if path == "AAA001" {
			return nil, errors.New("permission denied")
		}
		return []byte(advert{title: "Engineer", date: "01/01/2020"}.html()), nil
	}}
	recs, st, err := a.Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if st.Scanned != 2 || st.Unreadable != 1 || st.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if !recs[0].LikelyFailed() || recs[1].LikelyFailed() {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries := []loader.Entry{{Name: "AAA001", Path: "x", Advert: true}}
	for _, w := range []int{0, 3} {
		a := &Assembler{Workers: w, Read: func(string) ([]byte, error) { return nil, nil }}
		if _, _, err := a.Run(ctx, entries); !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: expected context.Canceled, got %v", w, err)
		}
	}
}

func TestRun_NonAdvertFilesAreNotFailures(t *testing.T) {
	dir := t.TempDir()
	good := "<h1>Research Fellow</h1><table><tr><td>Placed on:</td><td>01/05/2023</td></tr></table>"
	files := map[string]string{
		"AAA001":     good,
		"index.html": "<h1>Index</h1>",
		"robots.txt": "User-agent: *",
		"README":     "notes",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	_, st := runDir(t, dir, &Assembler{})
	if st.Scanned != 4 || st.Records != 4 || st.Sparse != 3 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.Failed != 0 {
		t.Fatalf("Failed=%d, want 0 for non-advert files", st.Failed)
	}
}
