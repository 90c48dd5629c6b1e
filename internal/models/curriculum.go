package models

// UpsertRegulation replaces the regulation with the same name or appends it
func UpsertRegulation(regs []Regulation, reg Regulation) []Regulation {
	out := make([]Regulation, 0, len(regs)+1)
	replaced := false
	for _, r := range regs {
		if r.Name == reg.Name {
			out = append(out, reg)
			replaced = true
			continue
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, reg)
	}
	return out
}

// UpsertSyllabus finds or creates the program by exact name and upserts the
// regulation inside it. The input slice is not modified.
func UpsertSyllabus(programs []Program, programName string, reg Regulation) []Program {
	out := CopyPrograms(programs)
	for i := range out {
		if out[i].Name == programName {
			out[i].Regulations = UpsertRegulation(out[i].Regulations, reg)
			return out
		}
	}
	return append(out, Program{Name: programName, Regulations: []Regulation{reg}})
}

// RemoveRegulation deletes one regulation of a program. The program itself
// stays, even when its last regulation is removed.
func RemoveRegulation(programs []Program, programName, regulationName string) ([]Program, error) {
	out := CopyPrograms(programs)
	for i := range out {
		if out[i].Name != programName {
			continue
		}
		regs := make([]Regulation, 0, len(out[i].Regulations))
		found := false
		for _, r := range out[i].Regulations {
			if r.Name == regulationName {
				found = true
				continue
			}
			regs = append(regs, r)
		}
		if !found {
			return programs, ErrRegulationNotFound
		}
		out[i].Regulations = regs
		return out, nil
	}
	return programs, ErrProgramNotFound
}

// CopyPrograms deep-copies a program list, never returning nil
func CopyPrograms(programs []Program) []Program {
	out := make([]Program, len(programs))
	for i, p := range programs {
		regs := make([]Regulation, len(p.Regulations))
		copy(regs, p.Regulations)
		out[i] = Program{Name: p.Name, Regulations: regs}
	}
	return out
}
