package schema

import (
	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/mapper"
	"github.com/arnodel/feedjson/pipeline"
	"github.com/arnodel/feedjson/record"
)

// Problem converts PROBLEM rows.  Consecutive rows for the same patient
// combine into one document with several entries under "problems".
type Problem struct {
	samePatient
}

var _ pipeline.Combiner = Problem{}

func (Problem) Name() string     { return "PROBLEM" }
func (Problem) FieldCount() int  { return 26 }
func (Problem) MergeKey() string { return "problems" }

// problemCodes lists the optional coded fields from index 13 to 22.
var problemCodes = []string{
	"ranking",
	"certainty",
	"individual_awareness",
	"prognosis",
	"individual_awareness_prognosis",
	"family_awareness",
	"classification",
	"cancel_reason",
	"severity",
	"severity_class",
}

func (Problem) Transform(row feed.Row) *record.Object {
	problem := record.NewObject()
	problem.SetString("action_dt_tm", mapper.String(row.At(5)))
	problem.Set("condition", code(row.At(6)))
	setCodes(problem, "management_discipline", row.At(7))
	setCode(problem, "persistence", row.At(8))
	setCode(problem, "confirmation_status", row.At(9))
	setCode(problem, "life_cycle_status", row.At(10))
	mapper.SetString(problem, "status_dt_tm", row.At(11))
	mapper.SetString(problem, "onset_dt_tm", row.At(12))
	for i, key := range problemCodes {
		setCode(problem, key, row.At(13+i))
	}
	setComments(row.At(23), problem)
	setPhysicianField(row.At(24), problem)
	mapper.SetString(problem, "annotated_display", row.At(25))

	rec := record.NewObject()
	rec.Set("patient", patient(row))
	rec.Set("problems", record.NewList(problem))
	return rec
}
