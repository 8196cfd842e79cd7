package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/setting"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// TabReport 測度權重列表報告
type TabReport struct {
	Summary *SummaryReport `json:"Summary"`
	Values  *ValueReport   `json:"Values,omitzero"`
	isDone  bool
}

type SummaryReport struct {
	MeasureName  string      `json:"MeasureName"`
	MeasureId    setting.MID `json:"MeasureId"`
	Kind         string      `json:"Kind"`
	DomainKind   string      `json:"DomainKind"`
	CodomainKind string      `json:"CodomainKind"`
	Support      string      `json:"Support"`
	Normalized   bool        `json:"Normalized"`
	GridStep     float64     `json:"GridStep"`
	Points       int         `json:"Points"`
	InSupport    int         `json:"InSupport"`
	ZeroWeight   int         `json:"ZeroWeight"`
	CoverRate    float64     `json:"CoverRate"`
	MinWeight    float64     `json:"MinWeight"`
	MaxWeight    float64     `json:"MaxWeight"`
	SumWeight    float64     `json:"SumWeight"`
	SqSumWeight  float64     `json:"SqSumWeight"` // 平方和
	MeanWeight   float64     `json:"MeanWeight"`
	StdWeight    float64     `json:"StdWeight"`
	Mass         float64     `json:"Mass"`
}

// ValueReport 完整逐點權重
//
// 紀錄時只收集，避免轉型成本。紀錄完成後Done()會將衍生統計填入Summary
type ValueReport struct {
	Xs      []float64 `json:"Xs"`
	Weights []float64 `json:"Weights"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 列表過程因為性能原因只做加總紀錄，所以列表完成後
//
// 請使用 Done 來通知報告可以一次性計算衍生統計
func (s *TabReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.CoverRate = s.Cover()
	s.Summary.MeanWeight = s.Mean()
	s.Summary.StdWeight = s.Std()
	s.Summary.Mass = s.RiemannMass()

	s.isDone = true
}

// Cover 回傳落於支撐內的格點比例
func (s *TabReport) Cover() float64 {
	if s.Summary.Points == 0 {
		return 0
	}
	return float64(s.Summary.InSupport) / float64(s.Summary.Points)
}

// Mean 回傳支撐內格點的平均權重
func (s *TabReport) Mean() float64 {
	if s.Summary.InSupport == 0 {
		return 0
	}
	return s.Summary.SumWeight / float64(s.Summary.InSupport)
}

// Std 回傳支撐內格點權重的標準差
func (s *TabReport) Std() float64 {
	n := s.Summary.InSupport
	if n < 2 {
		return 0
	}
	nf := float64(n)
	sumPow := s.Summary.SumWeight * s.Summary.SumWeight
	variance := (s.Summary.SqSumWeight - sumPow/nf) / (nf - 1)

	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// RiemannMass 回傳權重和乘上格距的黎曼近似質量
//
// 格距未知(非均勻格點)時回傳0
func (s *TabReport) RiemannMass() float64 {
	if s.Summary.GridStep <= 0 || math.IsInf(s.Summary.MaxWeight, 1) {
		return 0
	}
	return s.Summary.SumWeight * s.Summary.GridStep
}

// Discrete 將逐點值視圖轉成離散測度（點與權重同序）。
// 報告未保留 Values 時回傳錯誤。
func (s *TabReport) Discrete() (measure.GenericDiscreteWeight, error) {
	if s.Values == nil || len(s.Values.Xs) == 0 {
		return measure.GenericDiscreteWeight{}, errs.NewWarn("report has no per-point values")
	}
	return measure.NewDiscreteFromFloats(s.Values.Xs, s.Values.Weights, nil)
}

func (s *TabReport) WriteWith(w io.Writer, rep TabReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

func (s *TabReport) StdOut(ut time.Duration) {
	formatDuration(ut, s.Summary.Points)
	sk, sm := s.fmtBasic()
	str := fmtTable(s.Summary.MeasureName, sk, sm)
	fmt.Println(str)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, points int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	pps := int(float64(points) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\npps : %d points/sec\n", sec, pps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		s = s % 60
		p.Printf("used: %dm %ds\npps : %d points/sec\n", m, s, pps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\npps : %d points/sec\n", h, m, s, pps)
}

// StdOut

func (s *TabReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Measure Name": p.Sprintf("%s", s.Summary.MeasureName),
		"Measure ID":   fmt.Sprintf("%d", s.Summary.MeasureId),
		"Kind":         s.Summary.Kind,
		"Domain":       s.Summary.DomainKind,
		"Codomain":     s.Summary.CodomainKind,
		"Support":      s.Summary.Support,
		"Normalized":   fmt.Sprintf("%t", s.Summary.Normalized),
		"Grid Points":  p.Sprintf("%d", s.Summary.Points),
		"In Support":   p.Sprintf("%d", s.Summary.InSupport),
		"Cover Rate":   p.Sprintf("%.2f %%", 100.0*s.Summary.CoverRate),
		"Zero Weight":  p.Sprintf("%d", s.Summary.ZeroWeight),
		"Min Weight":   p.Sprintf("%.6g", s.Summary.MinWeight),
		"Max Weight":   p.Sprintf("%.6g", s.Summary.MaxWeight),
		"Mean Weight":  p.Sprintf("%.6g", s.Summary.MeanWeight),
		"STD":          p.Sprintf("%.6g", s.Summary.StdWeight),
		"Mass":         p.Sprintf("%.6g", s.Summary.Mass),
	}
	keys := []string{"Measure Name", "Measure ID", "Kind", "Domain", "Codomain", "Support", "Normalized", "Grid Points", "In Support", "Cover Rate", "Zero Weight", "Min Weight", "Max Weight", "Mean Weight", "STD", "Mass"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
