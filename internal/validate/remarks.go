package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dispatchd/bookingflow/internal/llm"
	"github.com/dispatchd/bookingflow/internal/model"
)

// consolidateRemarks pulls booker-authored instructions out of the original
// request and folds them into the remarks column, after the notes earlier
// passes have already written. The model path is optional; without a client
// a keyword scan does the job.
func (v *Validator) consolidateRemarks(ctx context.Context, record *model.BookingRecord, originalText string) {
	var notes []string
	if v.client != nil {
		notes = v.remarksWithModel(ctx, originalText)
	}
	if len(notes) == 0 {
		notes = remarksFromRules(originalText)
	}

	for _, note := range notes {
		if note == "" || strings.Contains(strings.ToLower(record.Remarks), strings.ToLower(note)) {
			continue
		}
		record.Remarks = appendRemark(record.Remarks, note)
	}
}

const remarksPrompt = `Extract operational remarks from this vehicle rental booking request.

Only include information the booker explicitly wrote that a driver or
dispatcher must act on: special instructions, driver name or contact if one
is assigned, flight numbers, luggage notes, waiting or stop requests.
Do not include passenger names, dates, times, addresses, or vehicle types;
those live in their own columns. Do not invent anything.

Request:
"""
%s
"""

Respond with JSON only:
{"remarks": ["note 1", "note 2"]}

Return {"remarks": []} when the request carries no such instructions.`

func (v *Validator) remarksWithModel(ctx context.Context, originalText string) []string {
	prompt := fmt.Sprintf(remarksPrompt, originalText)

	response, err := v.client.Generate(ctx, prompt)
	if err != nil {
		slog.Debug("Remarks model call failed, using rules", "error", err)
		return nil
	}
	v.cost.Add(llm.EstimateCost(prompt, response))

	var payload struct {
		Remarks []string `json:"remarks"`
	}
	if err := json.Unmarshal([]byte(llm.RepairJSON(response)), &payload); err != nil {
		slog.Debug("Remarks response unparsable, using rules", "error", err)
		return nil
	}

	notes := make([]string, 0, len(payload.Remarks))
	for _, note := range payload.Remarks {
		note = strings.TrimSpace(note)
		if note != "" {
			notes = append(notes, note)
		}
	}
	return notes
}

var remarkKeywords = []string{
	"driver", "instruction", "please", "kindly", "require", "prefer",
	"flight", "luggage", "baggage", "wait", "stop", "toll", "parking",
	"carry", "placard", "wheelchair", "child seat", "ac ", "non-ac",
}

const maxRuleRemarks = 3

// remarksFromRules scans request lines for instruction-bearing keywords and
// keeps the first three matches.
func remarksFromRules(originalText string) []string {
	var notes []string

	for _, line := range strings.Split(originalText, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "-*• \t"))
		if line == "" || len(line) > 160 {
			continue
		}
		lower := strings.ToLower(line)
		if looksLikeFormField(lower) {
			continue
		}
		for _, kw := range remarkKeywords {
			if strings.Contains(lower, kw) {
				notes = append(notes, line)
				break
			}
		}
		if len(notes) == maxRuleRemarks {
			break
		}
	}

	return notes
}

// looksLikeFormField filters "Label: value" lines whose label is one of the
// structured booking columns; those already landed in their own fields.
func looksLikeFormField(lower string) bool {
	idx := strings.Index(lower, ":")
	if idx <= 0 || idx > 30 {
		return false
	}
	label := strings.TrimSpace(lower[:idx])
	for _, col := range model.BookingColumns {
		if label == strings.ToLower(col) {
			return true
		}
	}
	switch label {
	case "name", "date", "time", "vehicle", "car", "pickup", "drop", "from", "to", "phone", "mobile", "contact":
		return true
	}
	return false
}
