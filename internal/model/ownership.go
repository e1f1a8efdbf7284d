package model

// OwnerKind distinguishes the legal nature of a registered owner.
type OwnerKind string

// Owner kind constants.
const (
	OwnerIndividual OwnerKind = "individual"
	OwnerCompany    OwnerKind = "company"
	OwnerGovernment OwnerKind = "government"
)

// OwnershipRow is one (parcel, owner) relationship as returned by the land
// registry. Many rows may share a parcel or an owner.
type OwnershipRow struct {
	Parcel           ParcelKey
	OwnerID          string // fiscal identifier
	OwnerName        string
	Kind             OwnerKind
	PropertyCategory string // cadastral property-use category, e.g. "A/2"
	Quota            string // ownership fraction as reported, e.g. "1/2"
	DeclaredAddress  string
}
