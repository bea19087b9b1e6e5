// Package analysis produces the commentary shown next to the economic data.
package analysis

import (
	"context"
	"errors"

	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/model"
)

// ErrNoDataset is returned when there is nothing to analyze.
var ErrNoDataset = errors.New("no dataset to analyze")

// Analyzer turns an organized dataset into an Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, data *model.OrganizedDataset) (*model.Analysis, error)
}

// Placeholder returns fixed text for every bucket. It stands in while no
// language model backend is configured.
type Placeholder struct{}

const (
	disabledNotice = "AI分析機能は現在無効化されています。"
	sourceNotice   = "データはWorld Bankから正常に取得されています。"
	upToDate       = "データは最新です"
)

func (Placeholder) Analyze(ctx context.Context, data *model.OrganizedDataset) (*model.Analysis, error) {
	if data == nil {
		return nil, ErrNoDataset
	}
	klog.FromContext(ctx).V(1).Info("AI analysis disabled, returning placeholder analysis")

	result := &model.Analysis{
		Overview: model.AnalysisOverview{
			Title:   "経済指標ダッシュボード概要",
			Summary: "AI分析機能は現在無効化されています。データはWorld Bankから正常に取得されています。",
			KeyFindings: []string{
				disabledNotice,
				sourceNotice,
				"主要な経済指標のトレンドをチャートで確認できます。",
			},
			Methodology: "AI分析無効",
			DataQuality: "World Bank公式データを使用",
		},
		ByCountry:   make(map[string]model.CountryAnalysis, len(data.ByCountry)),
		ByIndicator: make(map[string]model.IndicatorAnalysis, len(data.ByIndicator)),
		GlobalEconomicSummary: model.GlobalEconomicSummary{
			MainTrends: []string{disabledNotice},
			KeyPoints:  []string{upToDate},
		},
	}

	for code, bucket := range data.ByCountry {
		result.ByCountry[code] = model.CountryAnalysis{
			Country:     bucket.Name,
			CountryCode: code,
			Overview:    disabledNotice,
			Strengths:   []string{"データ表示"},
			Challenges:  []string{"AI分析無効"},
			Outlook:     upToDate,
		}
	}

	for code, bucket := range data.ByIndicator {
		result.ByIndicator[code] = model.IndicatorAnalysis{
			Indicator:     bucket.Name,
			IndicatorCode: code,
			Analysis:      disabledNotice,
			Insights:      []string{"データ表示"},
			GlobalTrends:  upToDate,
		}
	}

	return result, nil
}
