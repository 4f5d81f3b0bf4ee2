package sampledata

// Table file names, matching the dashboard defaults.
const (
	PassesFile  = "passDF.csv"
	MatchesFile = "gameDF.csv"
)

// Generation shape.
const (
	playersPerTeam   = 11
	matchIDBase      = 3_800_000
	noEndEvery       = 9  // every n-th pass has no recorded destination
	noFrameEvery     = 13 // every n-th pass has no freeze frame
	frameOpponents   = 5
	frameTeammates   = 4
	xtSpread         = 0.06
	xtMin            = -0.3
	xtMax            = 0.4
	matchSeconds     = 95 * 60
	directoryPerm    = 0o750
	logFilePerm      = 0o600
	workerMultiplier = 2
)

// HTTP status code constants.
const (
	StatusOK      = 200
	StatusCreated = 201
)
