package knowledge

import (
	"fmt"
	"strings"
)

// FactTopics lists the topics GetInstitutionalFact answers.
var FactTopics = []string{"general", "history", "admission", "facilities", "departments", "contact"}

func renderFacts(inst Institution) map[string]string {
	name := inst.Name
	if name == "" {
		name = "the university"
	}
	facts := make(map[string]string)

	var b strings.Builder
	fmt.Fprintf(&b, "About %s\n\n", name)
	writeField(&b, "Established", inst.Established)
	writeField(&b, "Location", inst.Location)
	if inst.Motto != "" {
		fmt.Fprintf(&b, "- Motto: %q\n", inst.Motto)
	}
	writeField(&b, "Type", inst.Type)
	writeField(&b, "Accreditation", inst.Accreditation)
	if len(inst.Schools) > 0 {
		b.WriteString("\nAcademic schools:\n")
		writeItems(&b, inst.Schools)
	}
	facts["general"] = strings.TrimSpace(b.String())

	b.Reset()
	fmt.Fprintf(&b, "%s at a glance\n\n", name)
	writeField(&b, "Established", inst.Established)
	writeField(&b, "Location", inst.Location)
	writeField(&b, "Motto", inst.Motto)
	facts["history"] = strings.TrimSpace(b.String())

	adm := inst.Admission
	if adm.UTME != "" || adm.OLevel != "" || len(adm.Process) > 0 {
		b.Reset()
		fmt.Fprintf(&b, "Admission requirements at %s\n\n", name)
		writeField(&b, "UTME score", adm.UTME)
		writeField(&b, "O'Level", adm.OLevel)
		writeField(&b, "Subjects", adm.Subjects)
		writeField(&b, "Cut-off mark", adm.CutOffMark)
		writeField(&b, "Direct entry", adm.DirectEntry)
		if len(adm.Process) > 0 {
			b.WriteString("\nApplication process:\n")
			writeItems(&b, adm.Process)
		}
		if len(adm.Dates) > 0 {
			b.WriteString("\nImportant dates:\n")
			writeItems(&b, adm.Dates)
		}
		facts["admission"] = strings.TrimSpace(b.String())
	}

	if len(inst.Facilities.Academic)+len(inst.Facilities.Student)+len(inst.SICT.Facilities) > 0 {
		b.Reset()
		fmt.Fprintf(&b, "Campus facilities at %s\n", name)
		if len(inst.Facilities.Academic) > 0 {
			b.WriteString("\nAcademic facilities:\n")
			writeItems(&b, inst.Facilities.Academic)
		}
		if len(inst.SICT.Facilities) > 0 {
			fmt.Fprintf(&b, "\n%s facilities:\n", orDefault(inst.SICT.Name, "School of ICT"))
			writeItems(&b, inst.SICT.Facilities)
		}
		if len(inst.Facilities.Student) > 0 {
			b.WriteString("\nStudent facilities:\n")
			writeItems(&b, inst.Facilities.Student)
		}
		facts["facilities"] = strings.TrimSpace(b.String())
	}

	if len(inst.SICT.Departments) > 0 {
		b.Reset()
		fmt.Fprintf(&b, "%s\n\nDepartments:\n", orDefault(inst.SICT.Name, "School of ICT"))
		writeItems(&b, inst.SICT.Departments)
		if len(inst.SICT.Programs) > 0 {
			b.WriteString("\nProgrammes:\n")
			writeItems(&b, inst.SICT.Programs)
		}
		facts["departments"] = strings.TrimSpace(b.String())
	}

	if inst.Website != "" || inst.Email != "" || inst.Phone != "" {
		b.Reset()
		fmt.Fprintf(&b, "Contacting %s\n\n", name)
		writeField(&b, "Website", inst.Website)
		writeField(&b, "Email", inst.Email)
		writeField(&b, "Phone", inst.Phone)
		writeField(&b, "Address", inst.Address)
		facts["contact"] = strings.TrimSpace(b.String())
	}
	return facts
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func writeItems(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
