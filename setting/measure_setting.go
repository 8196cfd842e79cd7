// Package setting 定義 measure 的設定檔結構（YAML/JSON）與基本檢查。
package setting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/numeric"
	"gopkg.in/yaml.v3"
)

// MID 是 measure 在 catalog 內的唯一識別碼。
type MID uint

// KindKey 指定要建構哪一種 measure 變體。
type KindKey string

const (
	KindLebesgue       KindKey = "lebesgue"
	KindUnitLebesgue   KindKey = "unit_lebesgue"
	KindDomainLebesgue KindKey = "domain_lebesgue"
	KindLegendre       KindKey = "legendre"
	KindJacobi         KindKey = "jacobi"
	KindLaguerre       KindKey = "laguerre"
	KindHermite        KindKey = "hermite"
	KindGaussian       KindKey = "gaussian"
	KindDirac          KindKey = "dirac"
	KindDiscrete       KindKey = "discrete"
)

// MeasureSetting 包含建構一個 measure 所需的所有高階設定。
type MeasureSetting struct {
	MeasureName string         `yaml:"measure_name"  json:"measure_name"`
	MeasureID   MID            `yaml:"measure_id"    json:"measure_id"`
	KindKey     KindKey        `yaml:"kind_key"      json:"kind_key"`
	Precision   string         `yaml:"precision"     json:"precision"` // float64(default) / float32 / vec64 / vec32
	Params      ParamSetting   `yaml:"params"        json:"params"`
	Domain      *DomainSetting `yaml:"domain"        json:"domain"`
	Points      []float64      `yaml:"points"        json:"points"`
	Weights     []float64      `yaml:"weights"       json:"weights"`
}

// ParamSetting 是各變體的參數欄位，未用到的欄位忽略。
type ParamSetting struct {
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta"  json:"beta"`
	Point float64 `yaml:"point" json:"point"` // dirac
	Dim   int     `yaml:"dim"   json:"dim"`   // gaussian (0 = any)
}

// DomainSetting 描述 domain_lebesgue / discrete 的支撐域。
type DomainSetting struct {
	Shape string  `yaml:"shape" json:"shape"` // full_space / unit_interval / chebyshev_interval / half_line / interval / point
	Lo    float64 `yaml:"lo"    json:"lo"`
	Hi    float64 `yaml:"hi"    json:"hi"`
	At    float64 `yaml:"at"    json:"at"`
}

// GetMeasureSettingByYAML 解析 YAML 設定並執行基本檢查。
func GetMeasureSettingByYAML(raw []byte) (*MeasureSetting, error) {
	ms := &MeasureSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(ms); err != nil {
		return nil, errs.Wrap(err, "decode measure setting yaml failed")
	}
	if err := ms.init(); err != nil {
		return nil, err
	}
	return ms, nil
}

// GetMeasureSettingByJSON 解析 JSON 設定並執行基本檢查。
func GetMeasureSettingByJSON(raw []byte) (*MeasureSetting, error) {
	ms := &MeasureSetting{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ms); err != nil {
		return nil, errs.Wrap(err, "decode measure setting json failed")
	}
	if err := ms.init(); err != nil {
		return nil, err
	}
	return ms, nil
}

// init 正規化欄位後執行 valid。
func (ms *MeasureSetting) init() error {
	ms.MeasureName = strings.ToLower(strings.TrimSpace(ms.MeasureName))
	ms.KindKey = KindKey(strings.ToLower(strings.TrimSpace(string(ms.KindKey))))
	ms.Precision = strings.ToLower(strings.TrimSpace(ms.Precision))
	return ms.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (ms *MeasureSetting) valid() error {

	if ms.MeasureName == "" {
		return errs.NewFatal("measure name required")
	}
	if ms.KindKey == "" {
		return errs.Fatalf("measure_name: %s err:empty kind_key", ms.MeasureName)
	}
	if _, err := ms.PrecisionKind(); err != nil {
		return err
	}

	// discrete: points/weights 必須平行且非空
	if ms.KindKey == KindDiscrete {
		if len(ms.Points) == 0 {
			return errs.Fatalf("measure_name: %s err:empty points", ms.MeasureName)
		}
		if len(ms.Points) != len(ms.Weights) {
			return errs.Fatalf("measure_name: %s err:%d points but %d weights",
				ms.MeasureName, len(ms.Points), len(ms.Weights))
		}
	}

	// domain_lebesgue 需要 domain 區塊
	if ms.KindKey == KindDomainLebesgue && ms.Domain == nil {
		return errs.Fatalf("measure_name: %s err:domain required for domain_lebesgue", ms.MeasureName)
	}
	if ms.Domain != nil {
		if _, err := ms.Domain.Build(); err != nil {
			return err
		}
	}
	return nil
}

// PrecisionKind 解析 precision 欄位成 numeric.Kind；空字串預設 float64。
func (ms *MeasureSetting) PrecisionKind() (numeric.Kind, error) {
	if ms.Precision == "" {
		return numeric.Float64, nil
	}
	k := numeric.KindByName(ms.Precision)
	if k == numeric.Invalid {
		return numeric.Invalid, errs.Fatalf("measure_name: %s err:unknown precision %q", ms.MeasureName, ms.Precision)
	}
	return k, nil
}

// Build 把 DomainSetting 轉成 domain 物件。
func (ds *DomainSetting) Build() (domain.Domain, error) {
	switch strings.ToLower(strings.TrimSpace(ds.Shape)) {
	case "", "full_space":
		return domain.FullSpace{}, nil
	case "unit_interval":
		return domain.UnitInterval{}, nil
	case "chebyshev_interval":
		return domain.ChebyshevInterval{}, nil
	case "half_line":
		return domain.HalfLine{}, nil
	case "interval":
		if ds.Lo > ds.Hi {
			return nil, errs.Fatalf("invalid interval: lo=%v hi=%v", ds.Lo, ds.Hi)
		}
		return domain.Interval{Lo: ds.Lo, Hi: ds.Hi}, nil
	case "point":
		return domain.Point{At: numeric.Scalar(numeric.Float64, ds.At)}, nil
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unknown domain shape: %q", ds.Shape))
	}
}
