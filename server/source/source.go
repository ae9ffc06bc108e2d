package source

// Package source holds the frame acquisition adapters. These sit outside the
// rendering core: they only publish NV12 frames into the exchange at a fixed
// rate. Orientation is assumed already normalized by the producer.

// Source is a frame producer that can be started and stopped
type Source interface {
	Start()
	Stop()
}
