package schema

import (
	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/mapper"
	"github.com/arnodel/feedjson/pipeline"
	"github.com/arnodel/feedjson/record"
)

// Allergy converts ALLERGY rows.  Consecutive rows for the same patient
// combine into one document with several entries under "allergys".
type Allergy struct {
	samePatient
}

var _ pipeline.Combiner = Allergy{}

func (Allergy) Name() string     { return "ALLERGY" }
func (Allergy) FieldCount() int  { return 19 }
func (Allergy) MergeKey() string { return "allergys" }

func (Allergy) Transform(row feed.Row) *record.Object {
	encounter := record.NewObject()
	encounter.Set("ids", ids(row.At(5)))

	allergy := record.NewObject()
	allergy.Set("allergen_type", code(row.At(6)))
	allergy.Set("allergen", code(row.At(7)))
	setCode(allergy, "severity", row.At(8))
	mapper.SetString(allergy, "onset", row.At(9))
	setCode(allergy, "reaction_status", row.At(10))
	setCode(allergy, "reaction_class", row.At(11))
	setCode(allergy, "source_of_info", row.At(12))
	mapper.SetString(allergy, "source_of_info_ft", row.At(13))
	mapper.SetString(allergy, "cancel_dt_tm", row.At(14))
	mapper.SetString(allergy, "reviewed_dt_tm", row.At(15))
	setReactions(row.At(16), allergy)
	setPhysicianField(row.At(17), allergy)
	setComments(row.At(18), allergy)

	rec := record.NewObject()
	rec.Set("patient", patient(row))
	rec.Set("encounter", encounter)
	rec.Set("allergys", record.NewList(allergy))
	return rec
}
