package model

// MergePolicy fuses incoming into existing, two records sharing an
// identifier. Scalars of existing are kept. Object properties of incoming
// colliding with existing ones are returned instead of applied.
type MergePolicy[T any] func(existing *T, incoming T) []PropertyConflict

// Silent discards the property conflicts of policy, as plain dataset merges do.
func Silent[T any](policy MergePolicy[T]) func(*T, T) {
	return func(existing *T, incoming T) {
		policy(existing, incoming)
	}
}

var (
	NetworkPolicy MergePolicy[Network] = func(existing *Network, incoming Network) []PropertyConflict {
		existing.Codes.Union(incoming.Codes)
		return nil
	}

	CommercialModePolicy MergePolicy[CommercialMode] = func(*CommercialMode, CommercialMode) []PropertyConflict {
		return nil
	}

	PhysicalModePolicy MergePolicy[PhysicalMode] = func(existing *PhysicalMode, incoming PhysicalMode) []PropertyConflict {
		existing.CO2Emission = maxEmission(existing.CO2Emission, incoming.CO2Emission)
		return nil
	}

	LinePolicy MergePolicy[Line] = func(existing *Line, incoming Line) []PropertyConflict {
		return existing.Annotations.fuse(incoming.Annotations)
	}

	RoutePolicy MergePolicy[Route] = func(existing *Route, incoming Route) []PropertyConflict {
		return existing.Annotations.fuse(incoming.Annotations)
	}

	StopPointPolicy MergePolicy[StopPoint] = func(existing *StopPoint, incoming StopPoint) []PropertyConflict {
		return existing.Annotations.fuse(incoming.Annotations)
	}

	StopAreaPolicy MergePolicy[StopArea] = func(existing *StopArea, incoming StopArea) []PropertyConflict {
		return existing.Annotations.fuse(incoming.Annotations)
	}
)

func maxEmission(existing, incoming *float32) *float32 {
	switch {
	case existing == nil:
		return incoming
	case incoming == nil:
		return existing
	case *incoming > *existing:
		value := *incoming
		return &value
	default:
		return existing
	}
}
