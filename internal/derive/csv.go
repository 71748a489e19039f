package derive

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nba-feature-stats/internal/model"
)

// Columns is the header of the derived feature CSV, in output order.
var Columns = []string{
	"game_id",
	"game_date",
	"matchup",
	"pts",
	"ast",
	"reb",
	"to",
	"efg_pct",
	"ts_pct",
	"home",
	"days_rest",
	"b2b",
	"pts_last5_avg",
	"ts_last5_avg",
	"off_rating",
	"def_rating",
	"net_rating",
	"pace",
	"opp_off_rating",
	"opp_def_rating",
	"opp_net_rating",
	"opp_pace",
	"real_plus_minus",
	"injury_risk",
	"proj_minutes",
	"four_in_five",
	"shrunk_pts_avg",
}

func WriteCSVFile(path string, rows []model.DerivedFeatureRow) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, rows)
}

func WriteCSV(out io.Writer, rows []model.DerivedFeatureRow) error {
	w := csv.NewWriter(out)

	if err := w.Write(Columns); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.GameID,
			fmtDate(r.GameDate),
			r.Matchup,
			fmtFloat(r.PTS),
			fmtFloat(r.AST),
			fmtFloat(r.REB),
			fmtFloat(r.TO),
			fmtFloat(r.EFGPct),
			fmtFloat(r.TSPct),
			strconv.Itoa(r.Home),
			fmtFloat(r.DaysRest),
			strconv.Itoa(r.BackToBack),
			fmtFloat(r.PtsLast5Avg),
			fmtFloat(r.TSLast5Avg),
			fmtFloat(r.OffRating),
			fmtFloat(r.DefRating),
			fmtFloat(r.NetRating),
			fmtFloat(r.Pace),
			fmtFloat(r.OppOffRating),
			fmtFloat(r.OppDefRating),
			fmtFloat(r.OppNetRating),
			fmtFloat(r.OppPace),
			fmtFloat(r.RealPlusMinus),
			fmtFloat(r.InjuryRisk),
			fmtFloat(r.ProjMinutes),
			strconv.Itoa(r.FourInFive),
			fmtFloat(r.ShrunkPtsAvg),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSVFile loads a table written by WriteCSVFile.
func ReadCSVFile(path string) ([]model.DerivedFeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(in io.Reader) ([]model.DerivedFeatureRow, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("derived csv is empty")
	}

	idx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		idx[h] = i
	}
	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("derived csv missing column %q", col)
		}
	}

	rows := make([]model.DerivedFeatureRow, 0, len(records)-1)
	for line, rec := range records[1:] {
		p := rowParser{rec: rec, idx: idx}
		row := model.DerivedFeatureRow{
			GameID:  p.str("game_id"),
			Matchup: p.str("matchup"),

			PTS:    p.float("pts"),
			AST:    p.float("ast"),
			REB:    p.float("reb"),
			TO:     p.float("to"),
			EFGPct: p.float("efg_pct"),
			TSPct:  p.float("ts_pct"),

			Home:       p.int("home"),
			DaysRest:   p.float("days_rest"),
			BackToBack: p.int("b2b"),

			PtsLast5Avg: p.float("pts_last5_avg"),
			TSLast5Avg:  p.float("ts_last5_avg"),

			OffRating:    p.float("off_rating"),
			DefRating:    p.float("def_rating"),
			NetRating:    p.float("net_rating"),
			Pace:         p.float("pace"),
			OppOffRating: p.float("opp_off_rating"),
			OppDefRating: p.float("opp_def_rating"),
			OppNetRating: p.float("opp_net_rating"),
			OppPace:      p.float("opp_pace"),

			RealPlusMinus: p.float("real_plus_minus"),
			InjuryRisk:    p.float("injury_risk"),
			ProjMinutes:   p.float("proj_minutes"),
			FourInFive:    p.int("four_in_five"),
			ShrunkPtsAvg:  p.float("shrunk_pts_avg"),
		}
		if d := p.str("game_date"); d != "" {
			t, err := time.Parse("2006-01-02", d)
			if err != nil {
				p.err = fmt.Errorf("game_date: %w", err)
			}
			row.GameDate = t
		}
		if p.err != nil {
			return nil, fmt.Errorf("derived csv line %d: %w", line+2, p.err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// rowParser remembers the first conversion failure so callers check once per row.
type rowParser struct {
	rec []string
	idx map[string]int
	err error
}

func (p *rowParser) str(col string) string {
	return p.rec[p.idx[col]]
}

func (p *rowParser) float(col string) float64 {
	v, err := strconv.ParseFloat(p.str(col), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func (p *rowParser) int(col string) int {
	v, err := strconv.Atoi(p.str(col))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
