package model

// Discovery is the set of images found for one subject.
// Magnitudes[i] is the companion of Phases[i].
type Discovery struct {
	Magnitudes []string
	Phases     []string
	RPEPairs   []string
}
