package dashboard

// Tiles holds the formatted tile values. It only exists for a Loaded state.
type Tiles struct {
	Buckets string `json:"buckets"`
	Usage   string `json:"usage"`
	Objects string `json:"objects"`
}

// ViewModel is everything the presentation layer needs for one render pass.
type ViewModel struct {
	IsLoading    bool   `json:"isLoading"`
	ErrorMessage string `json:"errorMessage"`
	Tiles        *Tiles `json:"tiles,omitempty"`
}

// NewViewModel derives the view model for state. A nil state (inactive
// screen) yields the zero ViewModel.
func NewViewModel(state ViewState) ViewModel {
	switch s := state.(type) {
	case Loading:
		return ViewModel{IsLoading: true}
	case Loaded:
		return ViewModel{
			Tiles: &Tiles{
				Buckets: DisplayCount(s.Snapshot.Buckets),
				Usage:   DisplayBytes(s.Snapshot.Usage),
				Objects: DisplayCount(s.Snapshot.Objects),
			},
		}
	case Failed:
		return ViewModel{ErrorMessage: s.Message}
	default:
		return ViewModel{}
	}
}
