package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/podium/internal/domain/types"
)

// Text writes the podium and the list as an aligned table. Entries whose
// time could not be read are marked with "?".
func Text(w io.Writer, board types.Board) error {
	if board.Total == 0 {
		_, err := fmt.Fprintln(w, "no entries")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tJUGADOR\tTIEMPO\t")
	write := func(entries []types.Entry) {
		for _, e := range entries {
			mark := ""
			if e.Unparsed {
				mark = "?"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Position, e.Player, e.Time, mark)
		}
	}
	write(board.Podium)
	if len(board.Others) > 0 {
		fmt.Fprintln(tw, "\t\t\t")
		write(board.Others)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return nil
}
