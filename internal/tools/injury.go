package tools

import (
	"context"
	"fmt"

	"github.com/huddlebot/huddlebot/internal/schema"
)

const injuryReportURL = "https://www.nfl.com/injuries/"

// InjuryGuidanceTool returns static guidance about checking injury reports.
// No structured injury feed is wired up, so this deliberately returns
// pointers to the official sources rather than fabricated statuses.
type InjuryGuidanceTool struct{}

// NewInjuryGuidanceTool creates an InjuryGuidanceTool.
func NewInjuryGuidanceTool() *InjuryGuidanceTool { return &InjuryGuidanceTool{} }

func (t *InjuryGuidanceTool) Name() string { return "get_injury_report" }

func (t *InjuryGuidanceTool) Description() string {
	return "Provides guidance on where to find current NFL injury reports. Does not return live injury data; use it when the user asks about injuries or player availability."
}

func (t *InjuryGuidanceTool) InputSchema() map[string]any {
	return schema.ObjectSchema(map[string]any{
		"team_name": map[string]any{
			"type":        "string",
			"description": "Optional team to focus the guidance on",
		},
	})
}

// InjuryGuidanceResult is the get_injury_report wire shape.
type InjuryGuidanceResult struct {
	Envelope
	Guidance  string `json:"guidance"`
	ReportURL string `json:"report_url"`
}

func (t *InjuryGuidanceTool) Execute(_ context.Context, args map[string]any) (any, error) {
	team := argString(args, "team_name")

	guidance := "Official injury reports are published by each team Wednesday through Friday, with final game statuses (Out, Doubtful, Questionable) on the last practice day. Check the official NFL injury report page for the current designations"
	if team != "" {
		guidance = fmt.Sprintf("%s, and filter for the %s.", guidance, team)
	} else {
		guidance += "."
	}
	guidance += " Practice participation (DNP / Limited / Full) is the strongest availability signal."

	return InjuryGuidanceResult{
		Envelope:  OK(),
		Guidance:  guidance,
		ReportURL: injuryReportURL,
	}, nil
}
