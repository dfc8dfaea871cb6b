package ui

// View represents the current active view
type View int

const (
	ViewGallery View = iota
	ViewBoard
	ViewTeams
	ViewRewards
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewGallery:
		return "Boards"
	case ViewBoard:
		return "Board"
	case ViewTeams:
		return "Teams"
	case ViewRewards:
		return "Rewards"
	default:
		return "Unknown"
	}
}

// ParseView maps a --view flag value to a view
func ParseView(name string) (View, bool) {
	switch name {
	case "", "gallery", "boards":
		return ViewGallery, true
	case "board":
		return ViewBoard, true
	case "teams":
		return ViewTeams, true
	case "rewards":
		return ViewRewards, true
	}
	return ViewGallery, false
}

// SwitchViewMsg requests a view change
type SwitchViewMsg struct {
	View View
}
