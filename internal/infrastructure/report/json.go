package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"kwh-verifier/internal/domain/entity"
)

// JSONSink пишет {"data_kwh": [...], "total": N}.
type JSONSink struct {
	path string
}

type jsonMinimalRow struct {
	Idpel string `json:"idpel"`
}

type jsonExtendedRow struct {
	Idpel        string   `json:"idpel"`
	Stand        string   `json:"stand"`
	Filename     string   `json:"filename"`
	ValidProb    float64  `json:"p_kwh"`
	NegativeProb float64  `json:"p_neg"`
	Pred         string   `json:"pred"`
	Status       string   `json:"status"`
	Reasons      []string `json:"reasons"`
	CopiedTo     string   `json:"copied_to,omitempty"`
	SourcePath   string   `json:"src_path"`
}

type jsonDocument struct {
	Data  any `json:"data_kwh"`
	Total int `json:"total"`
}

func (s *JSONSink) Write(ctx context.Context, report *entity.Report) (string, error) {
	doc := jsonDocument{Total: len(report.Rows)}
	if report.Layout == entity.LayoutExtended {
		rows := make([]jsonExtendedRow, 0, len(report.Rows))
		for _, r := range report.Rows {
			reasons := r.Verdict.Reasons
			if reasons == nil {
				reasons = []string{}
			}
			rows = append(rows, jsonExtendedRow{
				Idpel:        r.Idpel,
				Stand:        r.Stand,
				Filename:     r.Filename,
				ValidProb:    r.ValidProb,
				NegativeProb: r.NegativeProb,
				Pred:         string(r.Label),
				Status:       r.Verdict.Status(),
				Reasons:      reasons,
				CopiedTo:     r.CopiedTo,
				SourcePath:   r.SourcePath,
			})
		}
		doc.Data = rows
	} else {
		rows := make([]jsonMinimalRow, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, jsonMinimalRow{Idpel: r.Idpel})
		}
		doc.Data = rows
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := ensureDir(s.path); err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	return s.path, nil
}
