package cwqi

// Classification splits one sample's rows into the scoring categories. A Hybrid row
// appears in both Health and AO; a bacteriological row also appears in its category.
type Classification struct {
	Health          []CategorizedParameter
	AO              []CategorizedParameter
	General         []CategorizedParameter
	Bacteriological []RawParameterRow
}

// Classify places every row into the categories it qualifies for. The input is not modified.
func (e *Engine) Classify(rows []RawParameterRow) Classification {
	c := Classification{
		Health:          []CategorizedParameter{},
		AO:              []CategorizedParameter{},
		General:         []CategorizedParameter{},
		Bacteriological: []RawParameterRow{},
	}

	for _, row := range rows {
		if p, ok := asHealth(row); ok {
			c.Health = append(c.Health, p)
		}
		if p, ok := asAO(row); ok {
			c.AO = append(c.AO, p)
		}
		if row.ParameterType == TypeGeneral {
			c.General = append(c.General, CategorizedParameter{
				RawParameterRow: row,
				CategoryStatus:  row.ComplianceStatus,
				Category:        CategoryGeneral,
			})
		}
		if e.settings.Names.IsBacteriological(row.ParameterName) {
			c.Bacteriological = append(c.Bacteriological, row)
		}
	}

	return c
}

func asHealth(row RawParameterRow) (CategorizedParameter, bool) {
	if row.ParameterType != TypeMAC && row.ParameterType != TypeHybrid {
		return CategorizedParameter{}, false
	}
	if !row.MACValue.Present() {
		return CategorizedParameter{}, false
	}
	return CategorizedParameter{
		RawParameterRow:  row,
		ObjectiveValue:   row.MACValue,
		ObjectiveDisplay: row.MACDisplay,
		CategoryStatus:   row.MACComplianceStatus,
		Category:         CategoryHealth,
	}, true
}

func asAO(row RawParameterRow) (CategorizedParameter, bool) {
	if row.ParameterType != TypeAO && row.ParameterType != TypeHybrid {
		return CategorizedParameter{}, false
	}
	if !row.AOValue.Present() && row.AODisplay == "" {
		return CategorizedParameter{}, false
	}
	return CategorizedParameter{
		RawParameterRow:  row,
		ObjectiveValue:   row.AOValue,
		ObjectiveDisplay: row.AODisplay,
		CategoryStatus:   row.AOComplianceStatus,
		OverallStatus:    row.ComplianceStatus,
		Category:         CategoryAO,
	}, true
}
