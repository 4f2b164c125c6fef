package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/goadverts/internal/record"
)

func table(t *testing.T, csv string) *record.Table {
	t.Helper()
	tb, err := record.ReadCSV(strings.NewReader(csv), "NA")
	require.NoError(t, err)
	return tb
}

const first = `filename,title,date,year,salary,role,organisation,location
AAA001,engineer,01/02/2020,2020,30000,,uni a,leeds
AAA002,scientist,01/02/2020,2020,,,uni a,
AAA003,analyst,03/04/2022,2022,,,uni b,
AAA004,NA,05/06/2022,2022,,,uni b,
`

const second = `filename,title,date,year,salary,role,organisation,location
AAA002,data scientist,01/02/2020,2020,41000,,uni a,york
AAA005,developer,01/02/2021,2021.0,,,uni c,
AAA006,tutor,01/02/2023,2023,,,uni c,
AAA007,lecturer,,,,,uni c,
`

func TestUsable_DropsMissingKeyColumns(t *testing.T) {
	a, err := Usable(table(t, first))
	require.NoError(t, err)
	require.Len(t, a.Rows, 3, "row with NA title dropped")

	b, err := Usable(table(t, second))
	require.NoError(t, err)
	require.Len(t, b.Rows, 3, "row without year dropped")
}

func TestUsable_MissingColumn(t *testing.T) {
	_, err := Usable(table(t, "filename,year\nAAA001,2020\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestDifferences_Sorted(t *testing.T) {
	a, _ := Usable(table(t, first))
	b, _ := Usable(table(t, second))
	d, err := Differences(a, b)
	require.NoError(t, err)
	require.Equal(t, []string{"AAA001", "AAA003"}, d.OnlyA)
	require.Equal(t, []string{"AAA005", "AAA006"}, d.OnlyB)
}

func TestByYear_CoversGaps(t *testing.T) {
	a, _ := Usable(table(t, first))
	b, _ := Usable(table(t, second))
	got, err := ByYear(a, b)
	require.NoError(t, err)
	require.Equal(t, []YearDiff{
		{Year: 2020, OnlyA: 1, OnlyB: 0},
		{Year: 2021, OnlyA: 0, OnlyB: 1},
		{Year: 2022, OnlyA: 1, OnlyB: 0},
		{Year: 2023, OnlyA: 0, OnlyB: 1},
	}, got)
}

func TestByYear_NoYears(t *testing.T) {
	empty := table(t, "filename,title,year\n")
	got, err := ByYear(empty, empty)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMerge_FirstWins(t *testing.T) {
	a, _ := Usable(table(t, first))
	b, _ := Usable(table(t, second))
	m, err := Merge(a, b)
	require.NoError(t, err)
	require.Equal(t, a.Header, m.Header)

	var names []string
	for _, r := range m.Rows {
		names = append(names, r[0])
	}
	require.Equal(t, []string{"AAA001", "AAA002", "AAA003", "AAA005", "AAA006"}, names)
	require.Equal(t, "scientist", m.Rows[1][1], "a's row kept on collision")
}

func TestMerge_UnionOfColumns(t *testing.T) {
	a := table(t, "filename,title\nAAA001,x\n")
	b := table(t, "filename,extra,title\nAAA002,e,y\n")
	m, err := Merge(a, b)
	require.NoError(t, err)
	require.Equal(t, []string{"filename", "title", "extra"}, m.Header)
	require.Equal(t, [][]string{{"AAA001", "x", ""}, {"AAA002", "y", "e"}}, m.Rows)
}

func TestParseYear(t *testing.T) {
	cases := map[string]int{"2021": 2021, " 2019 ": 2019, "2021.0": 2021}
	for in, want := range cases {
		got, ok := ParseYear(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "n/a", "NaN"} {
		_, ok := ParseYear(in)
		require.False(t, ok, in)
	}
}
