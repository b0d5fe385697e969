package model

import (
	"fmt"
	"strings"
)

// Location is one of the physical vaccination sites.
type Location int

const (
	EastNY Location = iota
	Harlem
	WashingtonHeights
	SouthJamaica
)

// Site describes how each system refers to a Location.
type Site struct {
	Location Location
	Name     string // short name used in logs and reports
	Calendar string // source-system calendar label
	SiteID   string // destination "Select" button data-id
}

// AllSites lists the sites in canonical order. Enrollment processes location
// groups in this order.
var AllSites = []Site{
	{Location: EastNY, Name: "EAST_NY", Calendar: "CHN Vaccination Site: Church of God (East NY)", SiteID: "0013d000002jkZPAAY"},
	{Location: Harlem, Name: "HARLEM", Calendar: "CHN Vaccination Site: Convent Baptist (Harlem)", SiteID: "0013d000002jkZ0AAI"},
	{Location: WashingtonHeights, Name: "WASHINGTON_HEIGHTS", Calendar: "CHN Vaccination Site: Fort Washington (Washington Heights)", SiteID: "0013d000002vZH6AAM"},
	{Location: SouthJamaica, Name: "SOUTH_JAMAICA", Calendar: "CHN Vaccination Site: New Jerusalem (South Jamaica)", SiteID: "0013d000002jkSKAAY"},
}

func (l Location) site() (Site, bool) {
	if l < 0 || int(l) >= len(AllSites) {
		return Site{}, false
	}
	return AllSites[l], true
}

func (l Location) String() string {
	if s, ok := l.site(); ok {
		return s.Name
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// Calendar returns the source-system calendar label.
func (l Location) Calendar() string {
	s, _ := l.site()
	return s.Calendar
}

// SiteID returns the destination-form site identifier.
func (l Location) SiteID() string {
	s, _ := l.site()
	return s.SiteID
}

// LocationFromCalendar resolves a source calendar label. Matching is exact
// after trimming; the calendar set is closed.
func LocationFromCalendar(v string) (Location, bool) {
	v = strings.TrimSpace(v)
	for _, s := range AllSites {
		if s.Calendar == v {
			return s.Location, true
		}
	}
	return 0, false
}

// LocationByName returns the Location for a short name such as "HARLEM".
func LocationByName(name string) (Location, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, s := range AllSites {
		if s.Name == name {
			return s.Location, true
		}
	}
	return 0, false
}
