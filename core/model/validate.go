package model

import "fmt"

// DefaultMaxHouses is the upper bound of HousesCount when none is configured.
const DefaultMaxHouses = 9999

// ErrorKind enumerates the ways ProjectData can be invalid.
type ErrorKind int

const (
	InvalidHouseCount ErrorKind = iota + 1
	EmptyPackageList
	NonPositivePackageField
	UnresolvableStartDate
	DuplicatePackageName
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidHouseCount:
		return "InvalidHouseCount"
	case EmptyPackageList:
		return "EmptyPackageList"
	case NonPositivePackageField:
		return "NonPositivePackageField"
	case UnresolvableStartDate:
		return "UnresolvableStartDate"
	case DuplicatePackageName:
		return "DuplicatePackageName"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ValidationError describes one violated rule.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	// Package is the 0-based package index, -1 when not package related.
	Package int
	Name    string
	Value   any
	Max     int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidHouseCount:
		return fmt.Sprintf("housesCount must be between 1 and %d, got %v", e.Max, e.Value)
	case EmptyPackageList:
		return "at least one work package is required"
	case UnresolvableStartDate:
		if e.Value == "" {
			return "startDate is required"
		}
		return fmt.Sprintf("startDate %q is not a valid date", e.Value)
	case NonPositivePackageField:
		rule := "must be greater than zero"
		if e.Field == "cost" {
			rule = "cannot be negative"
		}
		return fmt.Sprintf("package %d (%s): %s %s, got %v", e.Package+1, e.Name, e.Field, rule, e.Value)
	case DuplicatePackageName:
		return fmt.Sprintf("package %d (%s): name already used by package %v", e.Package+1, e.Name, e.Value)
	default:
		return e.Kind.String()
	}
}

// Validate checks p against the engine invariants and returns every violation.
// A maxHouses of zero or less uses DefaultMaxHouses.
func Validate(p ProjectData, maxHouses int) []*ValidationError {
	if maxHouses <= 0 {
		maxHouses = DefaultMaxHouses
	}
	var errs []*ValidationError
	if p.HousesCount < 1 || p.HousesCount > maxHouses {
		errs = append(errs, &ValidationError{Kind: InvalidHouseCount, Field: "housesCount", Package: -1, Value: p.HousesCount, Max: maxHouses})
	}
	if _, err := ParseStartDate(p.StartDate); err != nil {
		errs = append(errs, &ValidationError{Kind: UnresolvableStartDate, Field: "startDate", Package: -1, Value: p.StartDate})
	}
	if len(p.WorkPackages) == 0 {
		errs = append(errs, &ValidationError{Kind: EmptyPackageList, Field: "workPackages", Package: -1})
	}
	for i, pkg := range p.WorkPackages {
		if pkg.Duration <= 0 {
			errs = append(errs, &ValidationError{Kind: NonPositivePackageField, Field: "duration", Package: i, Name: pkg.Name, Value: pkg.Duration})
		}
		if pkg.Rhythm <= 0 {
			errs = append(errs, &ValidationError{Kind: NonPositivePackageField, Field: "rhythm", Package: i, Name: pkg.Name, Value: pkg.Rhythm})
		}
		if pkg.Cost < 0 {
			errs = append(errs, &ValidationError{Kind: NonPositivePackageField, Field: "cost", Package: i, Name: pkg.Name, Value: pkg.Cost})
		}
		// Names key the financial breakdown, so they must be unique.
		if first := p.PackageIndex(pkg.Name); first != i {
			errs = append(errs, &ValidationError{Kind: DuplicatePackageName, Field: "name", Package: i, Name: pkg.Name, Value: first + 1})
		}
	}
	return errs
}

// ValidationMessages returns the human-readable form of Validate.
func ValidationMessages(p ProjectData, maxHouses int) []string {
	errs := Validate(p, maxHouses)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return msgs
}
