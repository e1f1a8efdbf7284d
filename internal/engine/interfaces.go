package engine

import "github.com/pgoretti/landcontact/internal/model"

// AddressClassifier assigns a confidence tier and routing channel to one
// owner-address pair given its geocoding outcome.
type AddressClassifier interface {
	Classify(pair model.OwnerAddressPair, g model.GeocodeResult) model.ClassifiedAddress
}
