package models

// TransportMode is the means of travel picked for a trip.
type TransportMode string

const (
	// TransportWalking represents travelling on foot.
	TransportWalking TransportMode = "walking"
	// TransportCar represents travelling by car.
	TransportCar TransportMode = "car"
	// TransportAutorickshaw represents travelling by auto rickshaw.
	TransportAutorickshaw TransportMode = "autorickshaw"
	// TransportBus represents travelling by bus.
	TransportBus TransportMode = "bus"
)

// transportIcons maps every transport mode to its marker icon.
var transportIcons = map[TransportMode]string{
	TransportWalking:      "🚶",
	TransportCar:          "🚗",
	TransportAutorickshaw: "🛺",
	TransportBus:          "🚌",
}

// Valid reports whether the mode is one of the four supported modes.
func (m TransportMode) Valid() bool {
	_, ok := transportIcons[m]
	return ok
}

// Icon returns the marker icon for the mode. Unknown or unset modes
// fall back to the walking icon.
func (m TransportMode) Icon() string {
	if icon, ok := transportIcons[m]; ok {
		return icon
	}
	return transportIcons[TransportWalking]
}
