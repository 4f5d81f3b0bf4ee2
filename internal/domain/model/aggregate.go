package model

// PlayerAggregate summarises one (player, position) pair over all passes.
type PlayerAggregate struct {
	PlayerID   int64
	PositionID int64
	PlayerName string
	Count      int
	MeanXT     float64
	SumXT      float64
	Label      string
}

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}
