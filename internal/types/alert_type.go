package types

// AlertType describes which rule raised a budget alert.
type AlertType string

const (
	AlertTypeThreshold AlertType = "threshold"
	AlertTypeCategory  AlertType = "category"
	AlertTypeDaily     AlertType = "daily"
)

// Valid reports whether the alert type is known.
func (t AlertType) Valid() bool {
	switch t {
	case AlertTypeThreshold, AlertTypeCategory, AlertTypeDaily:
		return true
	}

	return false
}

func (t AlertType) String() string {
	return string(t)
}
