package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() ProjectData {
	return ProjectData{
		HousesCount: 10,
		StartDate:   "2026-04-06",
		WorkPackages: []WorkPackage{
			{Name: "A", Duration: 1, Rhythm: 2, Cost: 100},
		},
	}
}

func TestValidateAcceptsValidProject(t *testing.T) {
	assert.Empty(t, Validate(validProject(), 0))
	assert.Empty(t, Validate(DefaultProject(), 0))
}

func TestValidateEnumeratesEveryViolation(t *testing.T) {
	p := ProjectData{
		HousesCount: 0,
		StartDate:   "not-a-date",
		WorkPackages: []WorkPackage{
			{Name: "A", Duration: 0, Rhythm: 0, Cost: -1},
			{Name: "B", Duration: 1, Rhythm: 1},
		},
	}
	errs := Validate(p, 100)
	require.Len(t, errs, 5)
	kinds := map[ErrorKind]int{}
	for _, e := range errs {
		kinds[e.Kind]++
	}
	assert.Equal(t, 1, kinds[InvalidHouseCount])
	assert.Equal(t, 1, kinds[UnresolvableStartDate])
	assert.Equal(t, 3, kinds[NonPositivePackageField])

	fields := []string{}
	for _, e := range errs {
		if e.Kind == NonPositivePackageField {
			assert.Equal(t, 0, e.Package)
			fields = append(fields, e.Field)
		}
	}
	assert.Equal(t, []string{"duration", "rhythm", "cost"}, fields)
}

func TestValidateHouseBounds(t *testing.T) {
	p := validProject()
	p.HousesCount = 101
	errs := Validate(p, 100)
	require.Len(t, errs, 1)
	assert.Equal(t, InvalidHouseCount, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "between 1 and 100")

	p.HousesCount = 100
	assert.Empty(t, Validate(p, 100))

	p.HousesCount = DefaultMaxHouses + 1
	assert.Len(t, Validate(p, 0), 1)
}

func TestValidateEmptyPackagesAndDate(t *testing.T) {
	p := ProjectData{HousesCount: 1}
	msgs := ValidationMessages(p, 0)
	require.Len(t, msgs, 2)
	assert.Equal(t, "startDate is required", msgs[0])
	assert.Equal(t, "at least one work package is required", msgs[1])
}

func TestValidateRejectsDuplicatePackageNames(t *testing.T) {
	p := validProject()
	p.WorkPackages = append(p.WorkPackages,
		WorkPackage{Name: "B", Duration: 1, Rhythm: 1},
		WorkPackage{Name: "A", Duration: 2, Rhythm: 1},
	)
	errs := Validate(p, 0)
	require.Len(t, errs, 1)
	assert.Equal(t, DuplicatePackageName, errs[0].Kind)
	assert.Equal(t, 2, errs[0].Package)
	assert.Equal(t, "package 3 (A): name already used by package 1", errs[0].Error())
}

func TestValidationErrorMessages(t *testing.T) {
	e := &ValidationError{Kind: NonPositivePackageField, Field: "cost", Package: 2, Name: "Reboco", Value: -5.0}
	assert.Equal(t, "package 3 (Reboco): cost cannot be negative, got -5", e.Error())
	e = &ValidationError{Kind: NonPositivePackageField, Field: "rhythm", Package: 0, Name: "A", Value: 0}
	assert.True(t, strings.HasSuffix(e.Error(), "rhythm must be greater than zero, got 0"))
	assert.Equal(t, "EmptyPackageList", EmptyPackageList.String())
	assert.Equal(t, "ErrorKind(42)", ErrorKind(42).String())
}

func TestParseStartDate(t *testing.T) {
	for _, s := range []string{"2026-04-06", "06/04/2026", "2026-04-06T15:04:05-03:00"} {
		d, err := ParseStartDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2026, d.Year())
		assert.Equal(t, 4, int(d.Month()))
		assert.Equal(t, 6, d.Day())
		assert.Equal(t, 0, d.Hour())
	}
	_, err := ParseStartDate("  ")
	assert.Error(t, err)
	_, err = ParseStartDate("2026-13-01")
	assert.Error(t, err)
}

func TestWithColors(t *testing.T) {
	pkgs := []WorkPackage{{Name: "A"}, {Name: "B", Color: "#fff"}}
	out := WithColors(pkgs)
	assert.Equal(t, PackageColor(0), out[0].Color)
	assert.Equal(t, "#fff", out[1].Color)
	assert.Empty(t, pkgs[0].Color, "input must not be mutated")
	assert.NotEqual(t, PackageColor(0), PackageColor(1))
}

func TestDefaultProjectShape(t *testing.T) {
	p := DefaultProject()
	assert.Equal(t, 300, p.HousesCount)
	assert.Len(t, p.WorkPackages, 23)
	assert.Equal(t, 0, p.PackageIndex("Pré-Obra"))
	assert.Equal(t, 22, p.PackageIndex("Vistoria"))
	assert.Equal(t, -1, p.PackageIndex("missing"))
	assert.Len(t, p.StopPeriods, 1)
	assert.Len(t, p.PartialReductionPeriods, 3)
	assert.Equal(t, 0.0, p.StopPeriods[0].Coefficient())
}
