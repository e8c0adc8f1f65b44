package resultsgen

import (
	"fmt"

	"github.com/okian/podium/internal/domain/types"
)

// verifyBoard checks that served shows the same participants, positions and
// times as expected in both the podium and the list.
func verifyBoard(expected, served types.Board) error {
	if expected.Total != served.Total {
		return fmt.Errorf("served %d entries, expected %d", served.Total, expected.Total)
	}
	if err := sameEntries("podium", expected.Podium, served.Podium); err != nil {
		return err
	}
	return sameEntries("list", expected.Others, served.Others)
}

func sameEntries(view string, want, got []types.Entry) error {
	if len(want) != len(got) {
		return fmt.Errorf("%s has %d entries, expected %d", view, len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.Position != g.Position || w.Player != g.Player || w.Time != g.Time {
			return fmt.Errorf("%s slot %d: served %d %q %s, expected %d %q %s",
				view, i+1, g.Position, g.Player, g.Time, w.Position, w.Player, w.Time)
		}
	}
	return nil
}
