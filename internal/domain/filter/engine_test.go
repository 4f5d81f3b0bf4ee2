package filter

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/types"
	"github.com/okian/passmap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type passList []model.PassEvent

func (p passList) Passes() []model.PassEvent { return p }

func fixture() (*Engine, passList) {
	matches := []model.Match{
		{ID: 100, Name: "Arsenal - Chelsea", HomeTeamID: 1, HomeTeamName: "Arsenal", AwayTeamID: 2, AwayTeamName: "Chelsea"},
		{ID: 101, Name: "Chelsea - Fulham", HomeTeamID: 2, HomeTeamName: "Chelsea", AwayTeamID: 3, AwayTeamName: "Fulham"},
	}
	passes := passList{
		{ID: "a", PlayerID: 10, PlayerName: "Saka", PositionID: 17, PositionName: "RW", TeamID: 1, MatchID: 100},
		{ID: "b", PlayerID: 11, PlayerName: "Rice", PositionID: 10, PositionName: "CDM", TeamID: 1, MatchID: 100},
		{ID: "c", PlayerID: 20, PlayerName: "Palmer", PositionID: 17, PositionName: "RW", TeamID: 2, MatchID: 100},
		{ID: "d", PlayerID: 20, PlayerName: "Palmer", PositionID: 17, PositionName: "RW", TeamID: 2, MatchID: 101},
		{ID: "e", PlayerID: 30, PlayerName: "Iwobi", PositionID: 10, PositionName: "CDM", TeamID: 3, MatchID: 101},
		{ID: "f", PlayerID: 10, PlayerName: "Saka", PositionID: 21, PositionName: "LW", TeamID: 1, MatchID: 100},
	}
	aggs := []model.PlayerAggregate{
		{PlayerID: 10, PositionID: 17, PlayerName: "Saka", Label: "Saka RW"},
		{PlayerID: 20, PositionID: 17, PlayerName: "Palmer", Label: "Palmer"},
		{PlayerID: 10, PositionID: 21, PlayerName: "Saka", Label: "Saka LW"},
		{PlayerID: 30, PositionID: 10, PlayerName: "Iwobi", Label: "Iwobi"},
	}
	return New(passes, aggs, catalog.NewSet(passes, matches, aggs)), passes
}

func ptr(v int64) *int64 { return &v }

func allDimensions() []types.Dimension {
	out := append([]types.Dimension{}, types.PlayerDimensions...)
	return append(out, types.AggregateDimensions...)
}

func optionValues(c catalog.Catalog) []int64 {
	var out []int64
	for _, o := range c.Options() {
		out = append(out, o.Value)
	}
	return out
}

func selectedIDs(passes passList, mask []bool) []string {
	var out []string
	for i, ok := range mask {
		if ok {
			out = append(out, passes[i].ID)
		}
	}
	return out
}

func TestInitialAndClear(t *testing.T) {
	Convey("Given a fresh engine", t, func() {
		e, _ := fixture()
		s := e.Initial()

		Convey("Then nothing is selected and catalogs are full", func() {
			So(s.TriggerEnabled, ShouldBeFalse)
			for _, d := range allDimensions() {
				_, ok := s.Value(d)
				So(ok, ShouldBeFalse)
				So(s.Selection(d).Options.Len(), ShouldEqual, e.Catalogs().For(d).Len())
			}
		})

		Convey("When both tabs have selections and clear fires", func() {
			s = e.Change(s, types.DimTeam, ptr(1))
			s = e.Change(s, types.DimAggPlayer, ptr(30))
			So(s.TriggerEnabled, ShouldBeTrue)
			s = e.Clear(s)

			Convey("Then both tabs are reset", func() {
				So(s.TriggerEnabled, ShouldBeFalse)
				for _, d := range allDimensions() {
					So(s.Selection(d).Value, ShouldBeNil)
					So(s.Selection(d).Explicit, ShouldBeFalse)
					So(s.Selection(d).Options.Len(), ShouldEqual, e.Catalogs().For(d).Len())
				}
			})
		})
	})
}

func TestByPlayerCascade(t *testing.T) {
	Convey("Given the by-player tab", t, func() {
		e, passes := fixture()
		s := e.Initial()

		Convey("When a team with a single match is selected", func() {
			s = e.Change(s, types.DimTeam, ptr(1))

			Convey("Then the match is auto-selected", func() {
				v, ok := s.Value(types.DimMatch)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, int64(100))
				So(s.Selection(types.DimMatch).Explicit, ShouldBeFalse)
			})

			Convey("Then the player catalog holds only that team's players", func() {
				So(optionValues(s.Selection(types.DimPlayer).Options), ShouldResemble, []int64{10, 11})
				So(s.Selection(types.DimPlayer).Value, ShouldBeNil)
			})

			Convey("Then the changed catalog is left full", func() {
				So(s.Selection(types.DimTeam).Options.Len(), ShouldEqual, 3)
			})

			Convey("Then the trigger stays disabled", func() {
				So(s.TriggerEnabled, ShouldBeFalse)
			})

			Convey("Then the pass mask follows team and derived match", func() {
				So(selectedIDs(passes, e.PassMask(s, types.ModeByPlayer)), ShouldResemble, []string{"a", "b", "f"})
			})

			Convey("When a player is then selected", func() {
				s = e.Change(s, types.DimPlayer, ptr(11))

				Convey("Then the remaining dimensions collapse onto that player", func() {
					v, _ := s.Value(types.DimPosition)
					So(v, ShouldEqual, int64(10))
					team, _ := s.Value(types.DimTeam)
					So(team, ShouldEqual, int64(1))
					So(s.Selection(types.DimTeam).Explicit, ShouldBeTrue)
					So(s.TriggerEnabled, ShouldBeTrue)
					So(selectedIDs(passes, e.PassMask(s, types.ModeByPlayer)), ShouldResemble, []string{"b"})
				})

				Convey("When the player is cleared again", func() {
					s = e.Change(s, types.DimPlayer, nil)

					Convey("Then derived selections are recomputed from the team alone", func() {
						So(s.Selection(types.DimPosition).Value, ShouldBeNil)
						m, ok := s.Value(types.DimMatch)
						So(ok, ShouldBeTrue)
						So(m, ShouldEqual, int64(100))
						So(s.Selection(types.DimPlayer).Explicit, ShouldBeFalse)
						So(s.TriggerEnabled, ShouldBeFalse)
					})
				})
			})
		})

		Convey("When a team with a single player is selected", func() {
			s = e.Change(s, types.DimTeam, ptr(2))

			Convey("Then the player is auto-selected and the trigger enabled", func() {
				p, ok := s.Value(types.DimPlayer)
				So(ok, ShouldBeTrue)
				So(p, ShouldEqual, int64(20))
				So(s.TriggerEnabled, ShouldBeTrue)
				So(s.Selection(types.DimMatch).Value, ShouldBeNil)
				So(optionValues(s.Selection(types.DimMatch).Options), ShouldResemble, []int64{100, 101})
			})
		})

		Convey("When selections contradict each other", func() {
			s = e.Change(s, types.DimTeam, ptr(3))
			s = e.Change(s, types.DimPosition, ptr(17))

			Convey("Then explicit values survive with empty catalogs", func() {
				team, ok := s.Value(types.DimTeam)
				So(ok, ShouldBeTrue)
				So(team, ShouldEqual, int64(3))
				So(s.Selection(types.DimTeam).Options.Len(), ShouldEqual, 0)
				So(s.Selection(types.DimPlayer).Value, ShouldBeNil)
				So(selectedIDs(passes, e.PassMask(s, types.ModeByPlayer)), ShouldBeEmpty)
			})
		})

		Convey("When the by-player tab changes", func() {
			s = e.Change(s, types.DimAggPlayer, ptr(10))
			before := s.Selection(types.DimAggPosition)
			s = e.Change(s, types.DimTeam, ptr(2))

			Convey("Then the by-aggregate tab is untouched", func() {
				So(s.Selection(types.DimAggPosition), ShouldResemble, before)
				v, _ := s.Value(types.DimAggPlayer)
				So(v, ShouldEqual, int64(10))
			})
		})
	})
}

func TestByAggregateCascade(t *testing.T) {
	Convey("Given the by-aggregate tab", t, func() {
		e, passes := fixture()
		s := e.Initial()

		Convey("When a player with two positions is selected", func() {
			s = e.Change(s, types.DimAggPlayer, ptr(10))

			Convey("Then both positions stay available and the trigger is enabled", func() {
				So(optionValues(s.Selection(types.DimAggPosition).Options), ShouldResemble, []int64{17, 21})
				So(s.Selection(types.DimAggPosition).Value, ShouldBeNil)
				So(s.TriggerEnabled, ShouldBeTrue)
			})

			Convey("Then the pass mask covers every position of the player", func() {
				So(selectedIDs(passes, e.PassMask(s, types.ModeByAggregate)), ShouldResemble, []string{"a", "f"})
				So(e.AggregateMask(s), ShouldResemble, []bool{true, false, true, false})
			})

			Convey("When a position is then selected", func() {
				s = e.Change(s, types.DimAggPosition, ptr(21))

				Convey("Then the player catalog is narrowed to the matching row", func() {
					So(s.Selection(types.DimAggPlayer).Options.Options(), ShouldResemble, []model.Option{{Label: "Saka LW", Value: 10}})
					So(selectedIDs(passes, e.PassMask(s, types.ModeByAggregate)), ShouldResemble, []string{"f"})
				})
			})
		})

		Convey("When a position held by one player is selected", func() {
			s = e.Change(s, types.DimAggPosition, ptr(10))

			Convey("Then that player is auto-selected", func() {
				v, ok := s.Value(types.DimAggPlayer)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, int64(30))
				So(s.TriggerEnabled, ShouldBeTrue)
			})
		})

		Convey("When a shared position is selected", func() {
			s = e.Change(s, types.DimAggPosition, ptr(17))

			Convey("Then no player is chosen and nothing is plotted", func() {
				So(optionValues(s.Selection(types.DimAggPlayer).Options), ShouldResemble, []int64{10, 20})
				So(s.TriggerEnabled, ShouldBeFalse)
				So(selectedIDs(passes, e.PassMask(s, types.ModeByAggregate)), ShouldBeEmpty)
			})
		})

		Convey("When the tab changes", func() {
			s = e.Change(s, types.DimTeam, ptr(1))
			before := s.Selection(types.DimMatch)
			s = e.Change(s, types.DimAggPlayer, ptr(20))

			Convey("Then the by-player tab is untouched", func() {
				So(s.Selection(types.DimMatch), ShouldResemble, before)
			})
		})
	})
}

func TestTransitionProperties(t *testing.T) {
	Convey("Given random sequences of dropdown changes", t, func() {
		e, _ := fixture()
		rng := rand.New(rand.NewSource(7))
		all := allDimensions()
		s := e.Initial()
		// The dropdown last given a value in each tab keeps its options.
		kept := map[types.Mode]types.Dimension{types.ModeByPlayer: noDimension, types.ModeByAggregate: noDimension}

		for step := 0; step < 500; step++ {
			dim := all[rng.Intn(len(all))]
			switch r := rng.Intn(10); {
			case r == 0:
				s = e.Clear(s)
				kept[types.ModeByPlayer], kept[types.ModeByAggregate] = noDimension, noDimension
			case r < 3:
				s = e.Change(s, dim, nil)
				kept[dim.Mode()] = noDimension
			default:
				opts := e.Catalogs().For(dim).Options()
				s = e.Change(s, dim, ptr(opts[rng.Intn(len(opts))].Value))
				kept[dim.Mode()] = dim
			}

			passMask := e.PassMask(s, types.ModeByPlayer)
			for _, d := range types.PlayerDimensions {
				if d == kept[types.ModeByPlayer] {
					continue
				}
				want := map[int64]struct{}{}
				for i, ok := range passMask {
					if ok {
						want[passField(&e.passes[i], d)] = struct{}{}
					}
				}
				So(distinct(s.Selection(d).Options), ShouldResemble, want)
			}

			aggMask := e.AggregateMask(s)
			for _, d := range types.AggregateDimensions {
				if d == kept[types.ModeByAggregate] {
					continue
				}
				want := map[int64]struct{}{}
				for i, ok := range aggMask {
					if ok {
						want[aggField(&e.aggs[i], d)] = struct{}{}
					}
				}
				So(distinct(s.Selection(d).Options), ShouldResemble, want)
			}

			So(s.TriggerEnabled, ShouldEqual, s.PlayerSelected())
		}
	})
}

func distinct(c catalog.Catalog) map[int64]struct{} {
	out := map[int64]struct{}{}
	for _, v := range c.DistinctValues() {
		out[v] = struct{}{}
	}
	return out
}

func TestClearedDropdownIsNarrowed(t *testing.T) {
	Convey("Given a team and a player picked then both cleared", t, func() {
		e, passes := fixture()
		s := e.Initial()
		s = e.Change(s, types.DimTeam, ptr(1))
		s = e.Change(s, types.DimPlayer, ptr(10))
		s = e.Change(s, types.DimPlayer, nil)

		Convey("Then the cleared player list follows the team", func() {
			So(optionValues(s.Selection(types.DimPlayer).Options), ShouldResemble, []int64{10, 11})
			So(s.Selection(types.DimPlayer).Value, ShouldBeNil)
		})

		s = e.Change(s, types.DimTeam, nil)

		Convey("Then the team list is full again", func() {
			So(selectedIDs(passes, e.PassMask(s, types.ModeByPlayer)), ShouldHaveLength, len(passes))
			So(optionValues(s.Selection(types.DimTeam).Options), ShouldResemble, []int64{1, 2, 3})
			So(s.Selection(types.DimTeam).Value, ShouldBeNil)
		})
	})

	Convey("Given an aggregated player picked then cleared", t, func() {
		e, _ := fixture()
		s := e.Change(e.Initial(), types.DimAggPosition, ptr(17))
		s = e.Change(s, types.DimAggPlayer, ptr(20))
		s = e.Change(s, types.DimAggPlayer, nil)
		s = e.Change(s, types.DimAggPosition, nil)

		Convey("Then both aggregate lists are full again", func() {
			So(optionValues(s.Selection(types.DimAggPosition).Options), ShouldResemble, []int64{17, 10, 21})
			So(s.Selection(types.DimAggPlayer).Options.Len(), ShouldEqual, 4)
			So(s.TriggerEnabled, ShouldBeFalse)
		})
	})
}

func TestStateJSON(t *testing.T) {
	Convey("Given a state with one explicit selection", t, func() {
		e, _ := fixture()
		s := e.Change(e.Initial(), types.DimTeam, ptr(1))

		b, err := json.Marshal(s)
		So(err, ShouldBeNil)

		var out map[string]any
		So(json.Unmarshal(b, &out), ShouldBeNil)

		Convey("Then dropdowns are grouped by tab", func() {
			byPlayer := out["by_player"].(map[string]any)
			team := byPlayer["team"].(map[string]any)
			So(team["value"], ShouldEqual, float64(1))
			So(team["explicit"], ShouldEqual, true)
			So(byPlayer["match"].(map[string]any)["explicit"], ShouldEqual, false)
			So(out["by_aggregate"].(map[string]any), ShouldContainKey, "agg_player")
			So(out["trigger_enabled"], ShouldEqual, false)
		})
	})
}
