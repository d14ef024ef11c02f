// Package profiling computes per-column statistics for the quality report:
// missingness, cardinality, and for numeric columns distribution shape.
package profiling

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"cleanmycsv/domain/table"
)

// ColumnProfile summarizes one column of a dataset
type ColumnProfile struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	MissingRate float64 `json:"missing_rate"`
	UniqueCount int     `json:"unique_count"`

	// Numeric columns only
	Summary *NumericSummary `json:"summary,omitempty"`
}

// NumericSummary describes the distribution of a numeric column
type NumericSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
	Q25          float64 `json:"q25"`
	Q75          float64 `json:"q75"`
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	OutlierCount int     `json:"outlier_count"`
	IsNormal     bool    `json:"is_normal"`
	NormalityP   float64 `json:"normality_p"`
}

// ProfileDataset profiles every column of the dataset
func ProfileDataset(ds *table.Dataset) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(ds.Columns))
	for i, name := range ds.Columns {
		profiles = append(profiles, ProfileColumn(name, ds.Column(i), ds.NumericColumn(i)))
	}
	return profiles
}

// ProfileColumn summarizes a single column. Numeric distribution stats are
// attached only when the column has enough numeric cells to be meaningful.
func ProfileColumn(name string, cells []table.Value, numbers []float64) ColumnProfile {
	p := ColumnProfile{Name: name, Kind: dominantKind(cells)}

	missing := 0
	unique := make(map[string]bool, len(cells))
	for _, v := range cells {
		if v.IsMissing() || (v.IsText() && strings.TrimSpace(v.AsText()) == "") {
			missing++
			continue
		}
		unique[string(v.Kind)+":"+v.String()] = true
	}
	if len(cells) > 0 {
		p.MissingRate = float64(missing) / float64(len(cells))
	}
	p.UniqueCount = len(unique)

	if len(numbers) >= 3 {
		if s, err := summarize(numbers); err == nil {
			p.Summary = s
		}
	}
	return p
}

// dominantKind names the column's effective type: the kind of its
// non-missing cells, or "text" for an empty or mixed column
func dominantKind(cells []table.Value) string {
	kind := ""
	for _, v := range cells {
		if v.IsMissing() {
			continue
		}
		k := string(v.Kind)
		if kind == "" {
			kind = k
		} else if kind != k {
			return "mixed"
		}
	}
	if kind == "" {
		return string(table.KindText)
	}
	return kind
}

func summarize(data []float64) (*NumericSummary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return nil, err
	}
	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return nil, err
	}

	skewness := sampleSkewness(data, mean, stdDev)
	kurtosis := sampleKurtosis(data, mean, stdDev)
	isNormal, pValue := approxNormality(skewness, kurtosis)

	return &NumericSummary{
		Mean:         mean,
		StdDev:       stdDev,
		Min:          min,
		Max:          max,
		Median:       median,
		Q25:          q25,
		Q75:          q75,
		Skewness:     skewness,
		Kurtosis:     kurtosis,
		OutlierCount: countOutliers(data, q25, q75),
		IsNormal:     isNormal,
		NormalityP:   pValue,
	}, nil
}

// sampleSkewness computes bias-corrected sample skewness
func sampleSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return (sum / n) * math.Sqrt(n*(n-1)) / (n - 2)
}

// sampleKurtosis computes sample kurtosis (not excess)
func sampleKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	kurtosis := sum / n
	excess := kurtosis - 3
	if n > 3 {
		correction := (n - 1) / ((n - 2) * (n - 3))
		excess = excess*correction + 6/(n+1)
	}
	return excess + 3
}

// approxNormality scores skewness and kurtosis against a chi-squared tail.
// A rough screen, not a proper Shapiro-Wilk test.
func approxNormality(skewness, kurtosis float64) (bool, float64) {
	testStat := math.Abs(skewness) + math.Abs(kurtosis-3)/2
	chiDist := distuv.ChiSquared{K: 2}
	pValue := 1 - chiDist.CDF(testStat*testStat)
	return pValue > 0.05, pValue
}

// countOutliers counts values beyond 1.5 IQR of the quartiles
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr
	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
