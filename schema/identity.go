package schema

import "github.com/arnodel/feedjson/record"

// PatientKey is the identity key of a record: the fingerprint of the
// patient's name, birth date and administrative sex.  Missing parts hash as
// absent, so two records without a patient block share a key.
func PatientKey(rec *record.Object) record.Fingerprint {
	var name, birthDate, sex record.Value
	if p, ok := rec.GetObject("patient"); ok {
		name, _ = p.Get("name")
		birthDate, _ = p.Get("birth_date")
		sex, _ = p.Get("admin_sex")
	}
	return record.FingerprintOf(name, birthDate, sex)
}

// samePatient is embedded by record types that merge on patient identity.
type samePatient struct{}

func (samePatient) Same(a, b *record.Object) bool {
	return PatientKey(a) == PatientKey(b)
}
