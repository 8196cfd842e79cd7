package setting

import (
	"github.com/zintix-labs/measurelab/errs"
	"github.com/zintix-labs/measurelab/sdk/domain"
	"github.com/zintix-labs/measurelab/sdk/measure"
	"github.com/zintix-labs/measurelab/sdk/numeric"
)

// Builder 從設定建出一個 measure 實例（純函數，不得保留 ms 的引用）。
type Builder func(ms *MeasureSetting) (measure.Measure, error)

// 內建變體的封閉對應表。外部模組可用 RegisterBuilder 擴充自訂 kind。
var builders = map[KindKey]Builder{
	KindLebesgue:       buildLebesgue,
	KindUnitLebesgue:   buildUnitLebesgue,
	KindDomainLebesgue: buildDomainLebesgue,
	KindLegendre:       buildLegendre,
	KindJacobi:         buildJacobi,
	KindLaguerre:       buildLaguerre,
	KindHermite:        buildHermite,
	KindGaussian:       buildGaussian,
	KindDirac:          buildDirac,
	KindDiscrete:       buildDiscrete,
}

// RegisterBuilder 註冊自訂變體的 builder。
//
// 只應在程式初始化階段呼叫（與內建表同樣不加鎖）；重複的 key 直接視為錯誤，
// 避免行為不確定。
func RegisterBuilder(key KindKey, b Builder) error {
	if key == "" || b == nil {
		return errs.NewFatal("builder key and func required")
	}
	if _, ok := builders[key]; ok {
		return errs.Fatalf("duplicate builder key: %s", key)
	}
	builders[key] = b
	return nil
}

// IsKindRegistered 回報 key 是否有對應的 builder。
func IsKindRegistered(key KindKey) bool {
	_, ok := builders[key]
	return ok
}

// Build 依 KindKey 分派到對應 builder，回傳不可變的 measure 實例。
func Build(ms *MeasureSetting) (measure.Measure, error) {
	if ms == nil {
		return nil, errs.NewFatal("nil measure setting")
	}
	b, ok := builders[ms.KindKey]
	if !ok {
		return nil, errs.Warnf("measure kind not registered: %s", ms.KindKey)
	}
	return b(ms)
}

// ============================================================
// ** 內建 builders **
// ============================================================

func buildLebesgue(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewLebesgueWithKind(k)
}

func buildUnitLebesgue(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewUnitLebesgueWithKind(k)
}

func buildDomainLebesgue(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	var d domain.Domain
	if ms.Domain != nil {
		d, err = ms.Domain.Build()
		if err != nil {
			return nil, err
		}
	}
	return measure.NewDomainLebesgueWithKind(d, k)
}

func buildLegendre(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewLegendreWithKind(k)
}

func buildJacobi(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewJacobiWithKind(ms.Params.Alpha, ms.Params.Beta, k)
}

func buildLaguerre(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewLaguerreWithKind(ms.Params.Alpha, k)
}

func buildHermite(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewHermiteWithKind(k)
}

func buildGaussian(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	return measure.NewGaussianWithKind(k, ms.Params.Dim)
}

func buildDirac(ms *MeasureSetting) (measure.Measure, error) {
	k, err := ms.PrecisionKind()
	if err != nil {
		return nil, err
	}
	if k.IsVec() {
		return nil, errs.Warnf("measure_name: %s err:dirac with vector precision", ms.MeasureName)
	}
	return measure.NewDiracAt(numeric.Scalar(k, ms.Params.Point))
}

func buildDiscrete(ms *MeasureSetting) (measure.Measure, error) {
	var (
		d   domain.Domain
		err error
	)
	if ms.Domain != nil {
		d, err = ms.Domain.Build()
		if err != nil {
			return nil, err
		}
	}
	return measure.NewDiscreteFromFloats(ms.Points, ms.Weights, d)
}
