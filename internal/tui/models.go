package tui

type View int

const (
	ViewResults View = iota
	ViewSearch
	ViewDetail
	ViewFavorites
	ViewLocal
	ViewFilters
)

func (v View) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewSearch:
		return "search"
	case ViewDetail:
		return "detail"
	case ViewFavorites:
		return "favorites"
	case ViewLocal:
		return "local"
	case ViewFilters:
		return "filters"
	default:
		return "unknown"
	}
}
