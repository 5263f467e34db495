package schema

import (
	"github.com/arnodel/feedjson/encoding/feed"
	"github.com/arnodel/feedjson/mapper"
	"github.com/arnodel/feedjson/record"
)

var (
	idNames   = []string{"id", "authority", "id_type"}
	codeNames = []string{"id", "description", "coding_method"}
	nameNames = []string{"last", "first", "middle"}

	physicianNames = []string{"phys_id", "phys_last", "phys_first", "phys_type", "phys_assign_auth"}
	commentNames   = []string{"text", "comment_dt_tm", "phys_id", "phys_last", "phys_first", "phys_assign_auth"}
	reactionNames  = []string{"react_id", "react_descrip", "react_cod_method", "severity_id", "severity_descrip", "severity_cod_meth"}
)

var (
	physicianID = []mapper.Rename{
		{From: "phys_id", To: "id"},
		{From: "phys_assign_auth", To: "authority"},
	}
	physicianName = []mapper.Rename{
		{From: "phys_last", To: "last"},
		{From: "phys_first", To: "first"},
	}
	reactionCode = []mapper.Rename{
		{From: "react_id", To: "id"},
		{From: "react_descrip", To: "description"},
		{From: "react_cod_method", To: "coding_method"},
	}
	reactionSeverity = []mapper.Rename{
		{From: "severity_id", To: "id"},
		{From: "severity_descrip", To: "description"},
		{From: "severity_cod_meth", To: "coding_method"},
	}
)

func ids(f feed.Field) *record.List {
	return mapper.List(f, idNames)
}

func code(f feed.Field) *record.Object {
	return mapper.Object(f, codeNames)
}

func setCode(dest *record.Object, key string, f feed.Field) {
	mapper.SetObject(dest, key, f, codeNames)
}

func setCodes(dest *record.Object, key string, f feed.Field) {
	mapper.SetList(dest, key, f, codeNames)
}

func name(f feed.Field) *record.Object {
	return mapper.Object(f, nameNames)
}

// patient builds the patient block shared by every record type from fields
// 1 to 4.
func patient(row feed.Row) *record.Object {
	p := record.NewObject()
	p.Set("ids", ids(row.At(1)))
	p.Set("name", name(row.At(2)))
	p.SetString("birth_date", mapper.String(row.At(3)))
	p.Set("admin_sex", code(row.At(4)))
	return p
}

// setPhysician writes a "physician" object built from the raw phys_* keys
// of src, if any are present.
func setPhysician(src, dest *record.Object) {
	physician := record.NewObject()
	mapper.RenameInto(src, physicianID, physician, "id")
	mapper.RenameInto(src, physicianName, physician, "name")
	mapper.Copy(src, "phys_type", physician)
	if physician.Len() > 0 {
		dest.Set("physician", physician)
	}
}

func setPhysicianField(f feed.Field, dest *record.Object) {
	setPhysician(mapper.Object(f, physicianNames), dest)
}

func setComments(f feed.Field, dest *record.Object) {
	comments := record.NewList()
	for _, item := range mapper.List(f, commentNames).Items() {
		raw := item.(*record.Object)
		comment := record.NewObject()
		mapper.Copy(raw, "text", comment)
		mapper.Copy(raw, "comment_dt_tm", comment)
		setPhysician(raw, comment)
		comments.Append(comment)
	}
	if comments.Len() > 0 {
		dest.Set("comments", comments)
	}
}

func setReactions(f feed.Field, dest *record.Object) {
	reactions := record.NewList()
	for _, item := range mapper.List(f, reactionNames).Items() {
		raw := item.(*record.Object)
		reaction := record.NewObject()
		mapper.RenameInto(raw, reactionCode, reaction, "code")
		mapper.RenameInto(raw, reactionSeverity, reaction, "severity")
		if reaction.Len() > 0 {
			reactions.Append(reaction)
		}
	}
	if reactions.Len() > 0 {
		dest.Set("reactions", reactions)
	}
}
