package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eugenenazirov/binpacking/internal/dataset"
)

// TimestampLayout is the layout used for CSV block headers.
const TimestampLayout = "01/02/2006 03:04:05 PM"

const notAvailable = "N/A"

var columns = []string{"FF (time)", "FFD (time)", "FF (bins)", "FFD (bins)"}

// WriteCSV writes one block per case: a timestamped title line, a column
// header, one line per row and a trailing blank line. Blocks are meant to be
// appended to an existing results file.
func WriteCSV(w io.Writer, timestamp time.Time, rows []Row) error {
	stamp := timestamp.Format(TimestampLayout)
	for _, c := range dataset.AllCases() {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{fmt.Sprintf("%s --- %s CASE", stamp, strings.ToUpper(string(c)))}); err != nil {
			return err
		}
		if err := cw.Write(append([]string{""}, columns...)); err != nil {
			return err
		}
		for _, row := range rows {
			if row.Case != c {
				continue
			}
			if err := cw.Write(append([]string{strconv.Itoa(row.Size)}, row.cells()...)); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable prints rows as an aligned table.
func WriteTable(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\t%s\n", strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", dataset.FileName(row.Size, row.Case), strings.Join(row.cells(), "\t"))
	}
	return tw.Flush()
}

func (r Row) cells() []string {
	if r.Err != nil {
		return []string{notAvailable, notAvailable, notAvailable, notAvailable}
	}
	return []string{
		formatSeconds(r.FFTime),
		formatSeconds(r.FFDTime),
		strconv.Itoa(r.FFBins),
		strconv.Itoa(r.FFDBins),
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
