package sanitizer

import "tdms/pkg/model"

// NormalizeGender lowercases the gender token so the oneof validation is
// case-insensitive for callers.
func NormalizeGender(gender string) string {
	p := Pipeline{TrimAndCollapse, trimAndLower}
	return p.Apply(gender)
}

// NormalizeStatus cleans the marital-status token.
func NormalizeStatus(status string) string {
	p := Pipeline{TrimAndCollapse, trimAndLower}
	return p.Apply(status)
}

// NormalizeNationality cleans the nationality label, preserving case as
// entered by the operator.
func NormalizeNationality(nationality string) string {
	return TrimAndCollapse(nationality)
}

// SanitizeGuests normalizes every guest's text fields in place.
func SanitizeGuests(guests []model.Guest) {
	for i := range guests {
		guests[i].Gender = NormalizeGender(guests[i].Gender)
		guests[i].Status = NormalizeStatus(guests[i].Status)
		guests[i].Nationality = NormalizeNationality(guests[i].Nationality)
	}
}
