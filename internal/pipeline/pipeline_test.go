package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/satscope/internal/catalog"
)

func sat(id, name, orbit, country, launch string) catalog.Satellite {
	return catalog.NewSatellite(catalog.Satellite{
		NoradCatID:  id,
		Name:        name,
		OrbitCode:   orbit,
		CountryCode: country,
		LaunchDate:  launch,
		ObjectType:  catalog.ObjectPayload,
	})
}

func fixture() []catalog.Satellite {
	return []catalog.Satellite{
		sat("25544", "ISS (ZARYA)", "{LEO}", "ISS", "1998-11-20"),
		sat("20580", "HST", "{LEO, LEO1}", "US", "1990-04-24"),
		sat("41866", "GOES 16", "{GEO}", "US", "2016-11-19"),
		sat("28654", "noaa 18", "{LEO,GTO}", "us", "2005-05-20"),
		sat("99999", "Mystery", "{}", "PRC", "unknown"),
	}
}

func ids(records []catalog.Satellite) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.NoradCatID
	}
	return out
}

func TestProject_SearchMatchesNameOrIDCaseInsensitive(t *testing.T) {
	records := fixture()
	for _, search := range []string{"iss", "ISS", "2558", "Noaa", "o", "zzz"} {
		t.Run(search, func(t *testing.T) {
			got := Project(records, search, nil, Sort{})
			needle := strings.ToLower(search)
			matched := map[string]bool{}
			for _, rec := range got {
				matched[rec.NoradCatID] = true
				if !strings.Contains(strings.ToLower(rec.Name), needle) && !strings.Contains(strings.ToLower(rec.NoradCatID), needle) {
					t.Fatalf("record %s does not match %q", rec.NoradCatID, search)
				}
			}
			for _, rec := range records {
				if MatchesSearch(rec, search) && !matched[rec.NoradCatID] {
					t.Fatalf("record %s matches %q but was dropped", rec.NoradCatID, search)
				}
			}
		})
	}
}

func TestProject_BlankSearchIsNoop(t *testing.T) {
	records := fixture()
	assert.Equal(t, ids(records), ids(Project(records, "   ", nil, Sort{})))
}

func TestProject_SearchUsesUntrimmedText(t *testing.T) {
	records := fixture()
	got := Project(records, "hst ", nil, Sort{})
	assert.Empty(t, got, "trailing space is part of the needle")

	got = Project(records, "goes 1", nil, Sort{})
	assert.Equal(t, []string{"41866"}, ids(got))
}

func TestProject_OrbitFilterIntersects(t *testing.T) {
	records := fixture()
	selection := []string{"GTO", "GEO"}
	got := Project(records, "", selection, Sort{})
	assert.Equal(t, []string{"41866", "28654"}, ids(got))
	for _, rec := range got {
		assert.True(t, rec.Orbits.Intersects(selection))
	}
}

func TestProject_EmptyOrbitSelectionIsIdentity(t *testing.T) {
	records := fixture()
	once := Project(records, "", nil, Sort{})
	twice := Project(once, "", []string{}, Sort{})
	assert.Equal(t, ids(records), ids(once))
	assert.Equal(t, ids(records), ids(twice))
}

func TestProject_LaunchDateOrdering(t *testing.T) {
	records := []catalog.Satellite{
		sat("1", "a", "{LEO}", "US", "2020-01-01"),
		sat("2", "b", "{LEO}", "US", "2019-06-15"),
		sat("3", "c", "{LEO}", "US", "2021-03-10"),
	}
	asc := Project(records, "", nil, Sort{Field: SortLaunchDate, Direction: Asc})
	assert.Equal(t, []string{"2019-06-15", "2020-01-01", "2021-03-10"}, launchDates(asc))

	desc := Project(records, "", nil, Sort{Field: SortLaunchDate, Direction: Desc})
	assert.Equal(t, []string{"2021-03-10", "2020-01-01", "2019-06-15"}, launchDates(desc))

	assert.Equal(t, []string{"1", "2", "3"}, ids(records), "input must not be reordered")
}

func TestProject_UnparseableLaunchDates(t *testing.T) {
	records := []catalog.Satellite{
		sat("1", "a", "{LEO}", "US", "garbage"),
		sat("2", "b", "{LEO}", "US", "2019-06-15"),
		sat("3", "c", "{LEO}", "US", ""),
		sat("4", "d", "{LEO}", "US", "2001-01-01"),
	}
	asc := Project(records, "", nil, Sort{Field: SortLaunchDate, Direction: Asc})
	assert.Equal(t, []string{"4", "2", "1", "3"}, ids(asc))

	desc := Project(records, "", nil, Sort{Field: SortLaunchDate, Direction: Desc})
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(desc))
}

func TestProject_StringSortIsStableAndCaseInsensitive(t *testing.T) {
	records := fixture()
	got := Project(records, "", nil, Sort{Field: SortCountry, Direction: Asc})
	// "us" and "US" compare equal, so their input order is kept.
	assert.Equal(t, []string{"25544", "99999", "20580", "41866", "28654"}, ids(got))

	got = Project(records, "", nil, Sort{Field: SortName, Direction: Desc})
	assert.Equal(t, []string{"28654", "99999", "25544", "20580", "41866"}, ids(got))
}

func TestProject_StepsCompose(t *testing.T) {
	records := fixture()
	got := Project(records, "o", []string{"LEO"}, Sort{Field: SortNoradCatID, Direction: Desc})
	want := []catalog.Satellite{records[3]}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestFiltersNormalizeAndCompare(t *testing.T) {
	f := Filters{
		Search:      " iss ",
		ObjectTypes: []catalog.ObjectType{catalog.ObjectDebris, catalog.ObjectPayload, catalog.ObjectDebris},
		OrbitCodes:  []string{"gto", "LEO"},
	}.Normalize()
	require.Equal(t, []catalog.ObjectType{catalog.ObjectPayload, catalog.ObjectDebris}, f.ObjectTypes)
	require.Equal(t, []string{"LEO", "GTO"}, f.OrbitCodes)
	assert.Equal(t, " iss ", f.Search)
	assert.False(t, f.Empty())
	assert.True(t, Filters{Search: "  "}.Empty())

	assert.True(t, SameObjectTypes(
		[]catalog.ObjectType{catalog.ObjectDebris, catalog.ObjectPayload},
		[]catalog.ObjectType{catalog.ObjectPayload, catalog.ObjectDebris, catalog.ObjectPayload},
	))
	assert.False(t, SameObjectTypes(nil, []catalog.ObjectType{catalog.ObjectPayload}))

	clone := f.Clone()
	clone.OrbitCodes[0] = "GEO"
	assert.Equal(t, "LEO", f.OrbitCodes[0])
}

func launchDates(records []catalog.Satellite) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.LaunchDate
	}
	return out
}
