// Package model defines the core domain records used throughout the application.
package model

import "fmt"

// ParcelKey uniquely identifies a parcel within the national cadastre.
type ParcelKey struct {
	Municipality string
	SheetID      string
	ParcelID     string
}

func (k ParcelKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Municipality, k.SheetID, k.ParcelID)
}

// Parcel is one unit of land from the campaign input list.
// Immutable once loaded for a campaign run.
type Parcel struct {
	Key          ParcelKey
	Province     string
	AreaHectares float64
}
