package model

// AreaSummary holds the area bookkeeping for one region.
type AreaSummary struct {
	RequiredArea int     `json:"required_area"` // Cells covered by all requested presents
	BoardArea    int     `json:"board_area"`    // W x H
	FreeCells    int     `json:"free_cells"`    // Cells left uncovered if the presents fit
	FillPercent  float64 `json:"fill_percent"`  // RequiredArea / BoardArea * 100
	Overflow     bool    `json:"overflow"`      // Required area exceeds the board
}

// CalculateAreaSummary computes how much of a region the requested presents
// would occupy. areas is indexed by shape id.
func CalculateAreaSummary(r Region, areas []int) AreaSummary {
	required := r.RequiredArea(areas)
	board := r.BoardArea()

	summary := AreaSummary{
		RequiredArea: required,
		BoardArea:    board,
		FreeCells:    board - required,
		Overflow:     required > board,
	}
	if board > 0 {
		summary.FillPercent = float64(required) / float64(board) * 100.0
	}
	if summary.FreeCells < 0 {
		summary.FreeCells = 0
	}
	return summary
}
